// Package inspect implements the CLI actions that exercise the wire codecs
// and the bridge outside of a hosting application: validating exported wire
// records and replaying scripted reader sessions.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"pubnav/convert"
	"pubnav/state"
	"pubnav/wire"
)

// Export is the interchange document a hosting application produces when it
// persists reader state: last known locators plus decorations per group.
type Export struct {
	Locators    []wire.Locator               `json:"locators,omitempty"`
	Decorations map[string][]wire.Decoration `json:"decorations,omitempty"`
}

// Check validates wire locator/decoration exports. Every record is run
// through the same conversion the bridge applies, so whatever passes here
// will not be dropped at render time.
func Check(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return fmt.Errorf("no export files to check")
	}

	var bad int
	for _, fname := range cmd.Args().Slice() {
		n, err := checkFile(env.Log, fname)
		if err != nil {
			return err
		}
		bad += n
	}
	if bad > 0 {
		return fmt.Errorf("%d record(s) would be dropped", bad)
	}
	return nil
}

func checkFile(log *zap.Logger, fname string) (int, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return 0, fmt.Errorf("unable to read export file '%s': %w", fname, err)
	}

	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return 0, fmt.Errorf("unable to parse export file '%s': %w", fname, err)
	}

	log = log.With(zap.String("file", fname))

	var bad int
	for i, l := range export.Locators {
		if _, ok := convert.LocatorToEngine(l); !ok {
			log.Warn("Locator does not normalize", zap.Int("index", i), zap.String("href", l.Href))
			bad++
		}
	}

	// Report groups in natural order so "group2" comes before "group10".
	groups := make([]string, 0, len(export.Decorations))
	for g := range export.Decorations {
		groups = append(groups, g)
	}
	slices.SortFunc(groups, func(a, b string) int {
		if natural.Less(a, b) {
			return -1
		}
		if natural.Less(b, a) {
			return 1
		}
		return 0
	})

	for _, g := range groups {
		seen := make(map[string]struct{})
		for i, d := range export.Decorations[g] {
			if _, dup := seen[d.ID]; dup {
				log.Warn("Duplicate decoration id in group",
					zap.String("group", g), zap.Int("index", i), zap.String("id", d.ID))
				bad++
				continue
			}
			seen[d.ID] = struct{}{}
			if _, ok := convert.DecorationToEngine(d, log); !ok {
				log.Warn("Decoration would be dropped",
					zap.String("group", g), zap.Int("index", i), zap.String("id", d.ID))
				bad++
			}
		}
		log.Info("Checked decoration group", zap.String("group", g), zap.Int("count", len(export.Decorations[g])))
	}

	log.Info("Checked export", zap.Int("locators", len(export.Locators)), zap.Int("groups", len(groups)), zap.Int("bad", bad))
	return bad, nil
}
