package pricing

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/partkb/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const priceList = `mpn,manufacturer,price,currency,quantity,seller
HC-SR04,Generic,3.50,cad,1,shop-a
HC-SR04,Generic,2.10,CAD,100,shop-a
BME280,Bosch,9.95,USD,,shop-b
BME280,Adafruit,7.50,USD,1,shop-c
A000066,Arduino,27.60,CAD,1,shop-a
`

func TestReadPriceList(t *testing.T) {
	q, err := ReadPriceList(strings.NewReader(priceList))
	require.NoError(t, err)
	assert.Equal(t, 3, q.Len())

	t.Run("volume breaks are skipped", func(t *testing.T) {
		quote, err := q.Quote(context.Background(), "", "hc-sr04")
		require.NoError(t, err)
		assert.Equal(t, 3.50, quote.Price)
		assert.Equal(t, "CAD", quote.Currency)
	})

	t.Run("manufacturer match preferred over cheaper", func(t *testing.T) {
		quote, err := q.Quote(context.Background(), "bosch", "BME280")
		require.NoError(t, err)
		assert.Equal(t, 9.95, quote.Price)
		assert.Equal(t, "shop-b", quote.Seller)
	})

	t.Run("cheapest without manufacturer", func(t *testing.T) {
		quote, err := q.Quote(context.Background(), "", "BME280")
		require.NoError(t, err)
		assert.Equal(t, 7.50, quote.Price)
	})

	t.Run("unknown mpn", func(t *testing.T) {
		_, err := q.Quote(context.Background(), "", "nope")
		assert.ErrorIs(t, err, ErrNoQuote)
	})
}

func TestReadPriceList_Invalid(t *testing.T) {
	_, err := ReadPriceList(strings.NewReader("mpn,cost\nX,1\n"))
	assert.ErrorIs(t, err, ErrInvalidPriceList)

	_, err = ReadPriceList(strings.NewReader("mpn,price\nX,abc\n"))
	assert.ErrorIs(t, err, ErrInvalidPriceList)

	_, err = ReadPriceList(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrInvalidPriceList)
}

func TestLoadPriceList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(priceList), 0o600))

	q, err := LoadPriceList(path)
	require.NoError(t, err)
	assert.Equal(t, 3, q.Len())

	_, err = LoadPriceList(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, ErrInvalidPriceList)
}

// flakyQuoter fails a number of times before delegating.
type flakyQuoter struct {
	failures int
	calls    int
	next     Quoter
}

func (f *flakyQuoter) Quote(ctx context.Context, manufacturer, mpn string) (Quote, error) {
	f.calls++
	if f.calls <= f.failures {
		return Quote{}, errors.New("upstream unavailable")
	}
	return f.next.Quote(ctx, manufacturer, mpn)
}

func TestRefresher_Refresh(t *testing.T) {
	table, err := ReadPriceList(strings.NewReader(priceList))
	require.NoError(t, err)

	records := []*core.RawRecord{
		{Label: "HC-SR04", Manufacturer: "Elecfreaks", MPN: "HC-SR04"},
		{Label: "Uno", Manufacturer: "Arduino", MPN: "A000066", OfferPrice: "30", Currency: "USD"},
		{Label: "Jumper", Manufacturer: "Generic", MPN: "BME280"},
		{Label: "NoMPN", Manufacturer: "Acme", MPN: "nan"},
		{Label: "Mystery", Manufacturer: "Acme", MPN: "ZZ-1"},
	}

	var out bytes.Buffer
	r, err := NewRefresher(&flakyQuoter{failures: 1, next: table},
		WithBackoff(Backoff{Attempts: 3, BaseDelay: time.Millisecond}),
		WithProgress(&out, 1))
	require.NoError(t, err)

	summary, err := r.Refresh(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, Summary{Eligible: 2, Priced: 1, Missing: 1, Skipped: 3}, summary)
	assert.Equal(t, "3.5", records[0].OfferPrice)
	assert.Equal(t, "CAD", records[0].Currency)
	assert.Equal(t, "30", records[1].OfferPrice, "priced records are kept")
	assert.Equal(t, "USD", records[1].Currency)
	assert.Empty(t, records[2].OfferPrice, "generic manufacturers are skipped")
	assert.Contains(t, out.String(), "2/2")
}

func TestRefresher_Force(t *testing.T) {
	table, err := ReadPriceList(strings.NewReader(priceList))
	require.NoError(t, err)

	rec := &core.RawRecord{Label: "Uno", Manufacturer: "Arduino", MPN: "A000066", OfferPrice: "30", Currency: "USD"}
	r, err := NewRefresher(table, WithForce(true))
	require.NoError(t, err)

	summary, err := r.Refresh(context.Background(), []*core.RawRecord{rec})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Priced)
	assert.Equal(t, "27.6", rec.OfferPrice)
	assert.Equal(t, "CAD", rec.Currency)
}

func TestRefresher_FailuresAreCounted(t *testing.T) {
	r, err := NewRefresher(&flakyQuoter{failures: 100},
		WithBackoff(Backoff{Attempts: 2, BaseDelay: time.Millisecond}))
	require.NoError(t, err)

	summary, err := r.Refresh(context.Background(), []*core.RawRecord{{Label: "X", Manufacturer: "Acme", MPN: "X-1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
}

func TestRefresher_Canceled(t *testing.T) {
	table, err := ReadPriceList(strings.NewReader(priceList))
	require.NoError(t, err)
	r, err := NewRefresher(table, WithPause(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Refresh(ctx, []*core.RawRecord{
		{Label: "A", Manufacturer: "Acme", MPN: "HC-SR04"},
		{Label: "B", Manufacturer: "Acme", MPN: "BME280"},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRefresher_Validation(t *testing.T) {
	_, err := NewRefresher(nil)
	assert.ErrorIs(t, err, ErrQuoterRequired)

	_, err = NewRefresher(&TableQuoter{}, WithBackoff(Backoff{}))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}
