package reboot

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/janelia-flyem/lattice/lattice"
	"github.com/janelia-flyem/lattice/regiontree"
)

// FullRegion is the name of the region covering every step of a procedure.
const FullRegion = "full"

// Region is a named box of interest for which an on-count is reported.
type Region struct {
	Name    string
	Extents lattice.Extents3d

	// Full regions ignore Extents and cover the bounds of the procedure.
	Full bool
}

func (r Region) String() string {
	if r.Full {
		return fmt.Sprintf("%s (procedure bounds)", r.Name)
	}
	return fmt.Sprintf("%s (%s)", r.Name, r.Extents)
}

// Key identifies what the region covers, so a count stored under it stays valid
// only while the region keeps both its name and its extents.
func (r Region) Key() string {
	if r.Full {
		return r.Name + "@bounds"
	}
	lo, hi := r.Extents.MinPoint, r.Extents.MaxPoint
	return fmt.Sprintf("%s@%d,%d,%d:%d,%d,%d", r.Name, lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
}

// DefaultRegions returns the initialization cube [-50,50]^3 followed by the full
// extent of the procedure.
func DefaultRegions() []Region {
	return []Region{
		{
			Name: "init",
			Extents: lattice.Extents3d{
				MinPoint: lattice.Point3d{-50, -50, -50},
				MaxPoint: lattice.Point3d{50, 50, 50},
			},
		},
		{Name: FullRegion, Full: true},
	}
}

// RunOptions modify how region trees are built.
type RunOptions struct {
	// Compact collapses partitioned nodes that became uniform after each step.
	Compact bool

	// Split is how override nodes are partitioned.  The zero value is SplitCube.
	Split regiontree.Split
}

// Result is the on-count for one region.
type Result struct {
	Region string
	Count  int64
	Stats  regiontree.Stats
}

// Run applies every step of the procedure, in order, to a separate region tree for
// each region and returns the on-counts in region order.  Regions are evaluated
// concurrently; each tree is confined to its own goroutine.
func Run(ctx context.Context, proc *Procedure, regions []Region, opts RunOptions) ([]Result, error) {
	results := make([]Result, len(regions))
	g, gctx := errgroup.WithContext(ctx)
	for i, region := range regions {
		i, region := i, region
		g.Go(func() error {
			ext := region.Extents
			if region.Full {
				var err error
				if ext, err = proc.Bounds(); err != nil {
					return fmt.Errorf("region %q: %v", region.Name, err)
				}
			}
			root, err := regiontree.NewSplit(ext.MinPoint, ext.MaxPoint, false, opts.Split)
			if err != nil {
				return fmt.Errorf("region %q: %v", region.Name, err)
			}
			timedLog := lattice.NewTimeLog()
			if err := Apply(gctx, root, proc.Steps, opts); err != nil {
				return fmt.Errorf("region %q: %v", region.Name, err)
			}
			results[i] = Result{
				Region: region.Name,
				Count:  root.Count(),
				Stats:  root.Stats(),
			}
			timedLog.Debugf("Region %s: %s cells on, %s", region, humanize.Comma(results[i].Count), results[i].Stats)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Apply updates the tree with each step in order, stopping early if the context
// is done.
func Apply(ctx context.Context, root *regiontree.Node, steps []Step, opts RunOptions) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stopped before step %d: %v", i, err)
		}
		root.Update(step.On, step.Extents)
		if opts.Compact {
			root.Compact()
		}
	}
	return nil
}
