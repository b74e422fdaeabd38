package indicator

import (
	"fmt"

	"github.com/sdcoffey/techan"
)

// Built-in formulas, registered under the names the upstream analysis
// pipeline requests (close_50_sma, macd, rsi, ...). Each carries the bar
// count its techan indicator needs before Calculate stops returning the
// warm-up zero.

// SMA returns a simple-moving-average formula over closing prices.
func SMA(window int) Formula {
	return Formula{
		Build: func(series *techan.TimeSeries) techan.Indicator {
			return techan.NewSimpleMovingAverage(techan.NewClosePriceIndicator(series), window)
		},
		MinBars: window,
	}
}

// EMA returns an exponential-moving-average formula over closing prices.
func EMA(window int) Formula {
	return Formula{
		Build: func(series *techan.TimeSeries) techan.Indicator {
			return techan.NewEMAIndicator(techan.NewClosePriceIndicator(series), window)
		},
		MinBars: window,
	}
}

// RSI returns a relative-strength-index formula over closing prices.
// The first gain/loss needs a previous close, hence window+1.
func RSI(window int) Formula {
	return Formula{
		Build: func(series *techan.TimeSeries) techan.Indicator {
			return techan.NewRelativeStrengthIndexIndicator(techan.NewClosePriceIndicator(series), window)
		},
		MinBars: window + 1,
	}
}

// MACD returns the MACD line formula (fast EMA minus slow EMA of closes).
// Defined once the slow EMA is.
func MACD(short, long int) Formula {
	return Formula{
		Build: func(series *techan.TimeSeries) techan.Indicator {
			return techan.NewMACDIndicator(techan.NewClosePriceIndicator(series), short, long)
		},
		MinBars: long,
	}
}

// MACDSignal returns the MACD signal-line formula (EMA of the MACD line).
// The signal EMA must see only defined MACD values, so its horizon is the
// MACD horizon plus the signal window.
func MACDSignal(short, long, signal int) Formula {
	return Formula{
		Build: func(series *techan.TimeSeries) techan.Indicator {
			macd := techan.NewMACDIndicator(techan.NewClosePriceIndicator(series), short, long)
			return techan.NewEMAIndicator(macd, signal)
		},
		MinBars: long + signal - 1,
	}
}

// MACDHistogram returns the MACD histogram formula (MACD minus signal line).
func MACDHistogram(short, long, signal int) Formula {
	return Formula{
		Build: func(series *techan.TimeSeries) techan.Indicator {
			macd := techan.NewMACDIndicator(techan.NewClosePriceIndicator(series), short, long)
			return techan.NewMACDHistogramIndicator(macd, signal)
		},
		MinBars: long + signal - 1,
	}
}

// ATR returns an average-true-range formula. True range needs a previous
// close, hence window+1.
func ATR(window int) Formula {
	return Formula{
		Build: func(series *techan.TimeSeries) techan.Indicator {
			return techan.NewAverageTrueRangeIndicator(series, window)
		},
		MinBars: window + 1,
	}
}

// BollingerMiddle returns the Bollinger middle-band formula (SMA of closes).
func BollingerMiddle(window int) Formula {
	return SMA(window)
}

// BollingerUpper returns the Bollinger upper-band formula.
func BollingerUpper(window int, sigma float64) Formula {
	return Formula{
		Build: func(series *techan.TimeSeries) techan.Indicator {
			return techan.NewBollingerUpperBandIndicator(techan.NewClosePriceIndicator(series), window, sigma)
		},
		MinBars: window,
	}
}

// BollingerLower returns the Bollinger lower-band formula.
func BollingerLower(window int, sigma float64) Formula {
	return Formula{
		Build: func(series *techan.TimeSeries) techan.Indicator {
			return techan.NewBollingerLowerBandIndicator(techan.NewClosePriceIndicator(series), window, sigma)
		},
		MinBars: window,
	}
}

// DefaultRegistry returns a registry pre-loaded with the built-in formulas.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	builtins := map[string]Formula{
		"close_10_ema":  EMA(10),
		"close_20_sma":  SMA(20),
		"close_50_sma":  SMA(50),
		"close_200_sma": SMA(200),
		"macd":          MACD(12, 26),
		"macds":         MACDSignal(12, 26, 9),
		"macdh":         MACDHistogram(12, 26, 9),
		"rsi":           RSI(14),
		"boll":          BollingerMiddle(20),
		"boll_ub":       BollingerUpper(20, 2),
		"boll_lb":       BollingerLower(20, 2),
		"atr":           ATR(14),
	}

	for name, formula := range builtins {
		if err := r.Register(name, formula); err != nil {
			// Names are unique literals above; a collision is a programming error.
			panic(fmt.Sprintf("register builtin %q: %v", name, err))
		}
	}

	return r
}
