// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package catalog

import "github.com/poiesic/partkb/core"

// ToRecord renders a part back into a tabular record. Building a catalog
// from the result yields an equivalent part.
func ToRecord(p core.Part) *core.RawRecord {
	return &core.RawRecord{
		Manufacturer:       p.Manufacturer,
		MPN:                p.MPN,
		Label:              p.Label,
		Category:           string(p.Category),
		Kind:               p.Kind,
		ObservedProperty:   p.ObservesProperty.String(),
		ActuatableProperty: p.ActsOnProperty.String(),
		FeatureOfInterest:  p.FeatureOfInterest.String(),
		VccMin:             formatMeasure(p.VccMin),
		VccMax:             formatMeasure(p.VccMax),
		LogicLevel:         formatMeasure(p.LogicLevel),
		IActiveMA:          formatMeasure(p.IActiveMA),
		IIdleUA:            formatMeasure(p.IIdleUA),
		PackageCase:        p.PackageCase,
		PinCount:           formatMeasure(p.PinCount),
		TempMinC:           formatMeasure(p.TempMinC),
		TempMaxC:           formatMeasure(p.TempMaxC),
		Iface:              p.Interfaces.String(),
		I2CAddrDefault:     p.I2CAddrDefault,
		I2CAddrRange:       p.I2CAddrRange,
		SPIMaxMHz:          formatMeasure(p.SPIMaxMHz),
		UARTBaud:           p.UARTBaud,
		SampleRateMaxHz:    formatMeasure(p.SampleRateMaxHz),
		LatencyMs:          formatMeasure(p.LatencyMs),
		AccuracyPct:        formatMeasure(p.AccuracyPct),
		RangeMin:           formatMeasure(p.RangeMin),
		RangeMax:           formatMeasure(p.RangeMax),
		Units:              p.Units,
		DatasheetURL:       p.DatasheetURL,
		ProductURL:         p.ProductURL,
		OfferPrice:         formatMeasure(p.Price),
		Currency:           p.Currency,
		Lifecycle:          p.Lifecycle,
		Notes:              p.Notes,
		Source:             p.Source,
	}
}
