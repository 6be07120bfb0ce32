package marketdata

import (
	"github.com/meenmo/cpilib/inflation"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/utils"
)

// UKRPISpec describes the UK retail price index: monthly, not interpolated,
// published about a month after the reference month.
var UKRPISpec = inflation.IndexSpec{
	Name:            "UKRPI",
	Region:          "UK",
	Frequency:       market.FreqMonthly,
	Interpolated:    false,
	AvailabilityLag: utils.Period{Length: 1, Unit: utils.Month},
}

// UKRPIFixings are the RPI (all items, Jan 1987 = 100) levels from July 2007
// to September 2009, keyed by reference month.
var UKRPIFixings = map[string]float64{
	"2007-07-01": 206.1,
	"2007-08-01": 207.3,
	"2007-09-01": 208.0,
	"2007-10-01": 208.9,
	"2007-11-01": 209.7,
	"2007-12-01": 210.9,
	"2008-01-01": 209.8,
	"2008-02-01": 211.4,
	"2008-03-01": 212.1,
	"2008-04-01": 214.0,
	"2008-05-01": 215.1,
	"2008-06-01": 216.8,
	"2008-07-01": 216.5,
	"2008-08-01": 217.2,
	"2008-09-01": 218.4,
	"2008-10-01": 217.7,
	"2008-11-01": 216.0,
	"2008-12-01": 212.9,
	"2009-01-01": 210.1,
	"2009-02-01": 211.4,
	"2009-03-01": 211.3,
	"2009-04-01": 211.5,
	"2009-05-01": 212.8,
	"2009-06-01": 213.4,
	"2009-07-01": 213.4,
	"2009-08-01": 213.4,
	"2009-09-01": 214.4,
}
