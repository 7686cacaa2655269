package seeder

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/Rana718/Seedling/internal/schema"
)

const dateLayout = "2006-01-02"

// DateBounds limits a generated date. A zero Start or End leaves that side
// open, falling back to the generator's default window.
type DateBounds struct {
	Start time.Time
	End   time.Time
}

// DataGenerator produces single fake values per base type.
type DataGenerator struct {
	faker     *gofakeit.Faker
	intMin    int
	intMax    int
	dateStart time.Time
	dateEnd   time.Time
}

func NewDataGenerator(cfg SeedConfig) *DataGenerator {
	cfg = cfg.withDefaults()
	return &DataGenerator{
		faker:     gofakeit.New(cfg.Seed),
		intMin:    cfg.IntMin,
		intMax:    cfg.IntMax,
		dateStart: truncateDay(cfg.DateStart),
		dateEnd:   truncateDay(cfg.DateEnd),
	}
}

// Generate returns one value for baseType: int for INTEGER, float64 for FLOAT,
// string for VARCHAR and a YYYY-MM-DD string for DATE.
func (g *DataGenerator) Generate(baseType string) (interface{}, error) {
	switch baseType {
	case schema.TypeInteger:
		return g.Int(g.intMin, g.intMax), nil
	case schema.TypeFloat:
		return g.Float(), nil
	case schema.TypeVarchar:
		return g.Word(), nil
	case schema.TypeDate:
		return g.GenerateDate(DateBounds{})
	default:
		return nil, fmt.Errorf("%w: %q", schema.ErrUnsupportedDataType, baseType)
	}
}

// Int returns a uniform integer in [lo, hi].
func (g *DataGenerator) Int(lo, hi int) int {
	return g.faker.IntRange(lo, hi)
}

// Float returns a value with three integer and two fractional digits.
func (g *DataGenerator) Float() float64 {
	v := math.Round(g.faker.Float64Range(0, 1000)*100) / 100
	if v >= 1000 {
		v = 999.99
	}
	return v
}

// Word returns one lowercase token from the faker lexicon.
func (g *DataGenerator) Word() string {
	return strings.ToLower(strings.Join(strings.Fields(g.faker.Word()), ""))
}

// GenerateDate returns a date inside b, both ends inclusive.
func (g *DataGenerator) GenerateDate(b DateBounds) (string, error) {
	start, end := g.dateStart, g.dateEnd
	if !b.Start.IsZero() {
		start = truncateDay(b.Start)
	}
	if !b.End.IsZero() {
		end = truncateDay(b.End)
	}
	if start.After(end) {
		return "", fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange, start.Format(dateLayout), end.Format(dateLayout))
	}

	days := int(end.Sub(start).Hours() / 24)
	return start.AddDate(0, 0, g.faker.IntRange(0, days)).Format(dateLayout), nil
}

// combine merges two independent draws into a wider candidate.
func (g *DataGenerator) combine(baseType string, a, b interface{}) interface{} {
	switch baseType {
	case schema.TypeInteger:
		return a.(int) + b.(int)
	case schema.TypeFloat:
		return math.Round((a.(float64)+b.(float64))*100) / 100
	case schema.TypeVarchar:
		return a.(string) + b.(string)
	default:
		return b
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
