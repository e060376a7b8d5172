package experiment

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jobshop-sim/jobshop-sim/jobshop"
)

// Aggregate summarises one configuration's replication result maps
// for every numeric key that appears in any of them: count (the number
// of replications reporting that key), sum, mean, min, max, stddev (spec.md §4.7.3: "numeric columns are summarised ... across
// replications keyed by their configuration signature"). Replications
// that recorded an EXCEPTION are excluded from the numeric summary but
// contribute to abortCount and are listed under exceptionMessages.
func Aggregate(outcome ConfigOutcome) jobshop.ResultMap {
	agg := jobshop.ResultMap{}
	agg.MustSet("signature", outcome.Signature)
	agg.MustSet(jobshop.ResultAbortCount, outcome.AbortCount)

	numeric := make(map[string][]float64)
	var exceptions []string
	for _, rm := range outcome.Replications {
		if msg, failed := rm[jobshop.ResultExceptionMessage]; failed {
			exceptions = append(exceptions, fmt.Sprint(msg))
			continue
		}
		for k, v := range rm {
			f, ok := toFloat(v)
			if !ok {
				continue
			}
			numeric[k] = append(numeric[k], f)
		}
	}

	keys := make([]string, 0, len(numeric))
	for k := range numeric {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		values := numeric[k]
		mean, std := stat.MeanStdDev(values, nil)
		minV, maxV, sum := values[0], values[0], 0.0
		for _, v := range values {
			sum += v
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
		agg.MustSet(k+".count", float64(len(values)))
		agg.MustSet(k+".sum", sum)
		agg.MustSet(k+".mean", mean)
		agg.MustSet(k+".min", minV)
		agg.MustSet(k+".max", maxV)
		agg.MustSet(k+".stddev", std)
	}
	if len(exceptions) > 0 {
		agg.MustSet("exceptionMessages", exceptions)
	}
	return agg
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
