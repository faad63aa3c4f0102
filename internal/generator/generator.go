// Package generator synthesizes the audit fixture: orders, their line items
// and the physical units produced for each line item.
//
// Output depends only on Options. The same seed always yields the same rows,
// ids and timestamps, so a generated store doubles as a stable test fixture.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"rebate_audit/internal/models"
)

type Options struct {
	Seed  int64
	Start time.Time
	Days  int

	MinOrdersPerDay int
	MaxOrdersPerDay int
	Partners        []string
	// Types is drawn uniformly, so repeating a label weights it.
	Types           []string
	OrderCancelRate float64

	MinDetailsPerOrder int
	MaxDetailsPerOrder int
	DetailCancelRate   float64
	MugPrintRate       float64
	StickerPrintRate   float64

	MinUnitsPerDetail int
	MaxUnitsPerDetail int
	UnitCancelRate    float64
}

func DefaultOptions() Options {
	return Options{
		Seed:  21,
		Start: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Days:  75,

		MinOrdersPerDay: 10,
		MaxOrdersPerDay: 40,
		Partners:        []string{"teepublicvip", "printify", "acme"},
		Types:           []string{string(models.OrderStandard), string(models.OrderStandard), string(models.OrderReprint)},
		OrderCancelRate: 0.05,

		MinDetailsPerOrder: 1,
		MaxDetailsPerOrder: 4,
		DetailCancelRate:   0.03,
		MugPrintRate:       0.10,
		StickerPrintRate:   0.06,

		MinUnitsPerDetail: 1,
		MaxUnitsPerDetail: 5,
		UnitCancelRate:    0.04,
	}
}

func (o Options) Validate() error {
	if o.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", o.Days)
	}
	if len(o.Partners) == 0 {
		return errors.New("at least one partner is required")
	}
	if len(o.Types) == 0 {
		return errors.New("at least one order type is required")
	}
	for _, r := range []struct {
		name     string
		min, max int
	}{
		{"orders per day", o.MinOrdersPerDay, o.MaxOrdersPerDay},
		{"details per order", o.MinDetailsPerOrder, o.MaxDetailsPerOrder},
		{"units per detail", o.MinUnitsPerDetail, o.MaxUnitsPerDetail},
	} {
		if r.min < 0 || r.max < r.min {
			return fmt.Errorf("invalid %s range [%d, %d]", r.name, r.min, r.max)
		}
	}
	return nil
}

// Generate builds the dataset. Ids start at 1 in each table and follow
// generation order: orders by day then draw, children after their parent.
func Generate(opts Options) (*models.Dataset, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	g := &generator{opts: opts, rng: rand.New(rand.NewSource(opts.Seed))}
	ds := &models.Dataset{}

	for day := 0; day < opts.Days; day++ {
		createdOn := opts.Start.AddDate(0, 0, day).Format(models.TimestampLayout)
		for n := g.intn(opts.MinOrdersPerDay, opts.MaxOrdersPerDay); n > 0; n-- {
			g.order(ds, createdOn)
		}
	}
	return ds, nil
}

type generator struct {
	opts Options
	rng  *rand.Rand
}

func (g *generator) order(ds *models.Dataset, createdOn string) {
	o := models.Order{
		ID:              uint(len(ds.Orders) + 1),
		CreatedOnUTC:    createdOn,
		CustomPartnerID: g.choice(g.opts.Partners),
		Type:            g.choice(g.opts.Types),
		IsCancelled:     g.chance(g.opts.OrderCancelRate),
	}
	ds.Orders = append(ds.Orders, o)

	for n := g.intn(g.opts.MinDetailsPerOrder, g.opts.MaxDetailsPerOrder); n > 0; n-- {
		d := models.OrderDetail{
			ID:             uint(len(ds.Details) + 1),
			OrderID:        o.ID,
			IsCancelled:    g.chance(g.opts.DetailCancelRate),
			IsMugPrint:     g.chance(g.opts.MugPrintRate),
			IsStickerPrint: g.chance(g.opts.StickerPrintRate),
		}
		ds.Details = append(ds.Details, d)

		for u := g.intn(g.opts.MinUnitsPerDetail, g.opts.MaxUnitsPerDetail); u > 0; u-- {
			ds.Units = append(ds.Units, models.OrderDetailUnit{
				ID:            uint(len(ds.Units) + 1),
				OrderDetailID: d.ID,
				IsCancelled:   g.chance(g.opts.UnitCancelRate),
			})
		}
	}
}

// intn draws uniformly from [lo, hi].
func (g *generator) intn(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *generator) choice(items []string) string {
	return items[g.rng.Intn(len(items))]
}

func (g *generator) chance(p float64) bool {
	return g.rng.Float64() < p
}
