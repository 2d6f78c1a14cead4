package builtin

import (
	"fmt"

	"github.com/arthurrossibr/general-vision-simplified/internal/config"
	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
	"github.com/arthurrossibr/general-vision-simplified/internal/transformer"
)

// FromConfig builds the transform chain described by specs. Duplicates
// discarded by dedup steps are tallied in drops.
func FromConfig(specs []config.Transform, drops *skiplog.Stats) (transformer.Chain, error) {
	chain := make(transformer.Chain, 0, len(specs))
	for i, s := range specs {
		switch s.Kind {
		case "normalize":
			chain = append(chain, Normalize{})
		case "dedup":
			chain = append(chain, DeDup{
				Keys:   s.Options.StringSlice("keys"),
				Policy: s.Options.String("policy", PolicyKeepLast),
				Drops:  drops,
			})
		default:
			return nil, fmt.Errorf("transform[%d]: unknown kind %q", i, s.Kind)
		}
	}
	return chain, nil
}

// DefaultChain normalizes strings and keeps the last record per process
// number.
func DefaultChain(drops *skiplog.Stats) transformer.Chain {
	return transformer.Chain{
		Normalize{},
		DeDup{Keys: []string{"numeroProcessoUnico"}, Policy: PolicyKeepLast, Drops: drops},
	}
}
