package domain

// ColorNames lists the fixed palette, in the order used by columns and by
// the quantizer. The percentages of one colorset sum to roughly 100.
var ColorNames = []string{
	"maroon", "red", "orange", "yellow", "olive", "green", "lime", "teal",
	"aqua", "blue", "navy", "fuchsia", "purple", "black", "gray", "silver",
	"white",
}

// Colorset holds per-color percentage coverage for exactly one mediafile.
// Pure derived data; it is recreated, never edited.
type Colorset struct {
	Base

	MediafileID int64 `json:"mediafile_id"`

	Maroon  float64 `json:"maroon"`
	Red     float64 `json:"red"`
	Orange  float64 `json:"orange"`
	Yellow  float64 `json:"yellow"`
	Olive   float64 `json:"olive"`
	Green   float64 `json:"green"`
	Lime    float64 `json:"lime"`
	Teal    float64 `json:"teal"`
	Aqua    float64 `json:"aqua"`
	Blue    float64 `json:"blue"`
	Navy    float64 `json:"navy"`
	Fuchsia float64 `json:"fuchsia"`
	Purple  float64 `json:"purple"`
	Black   float64 `json:"black"`
	Gray    float64 `json:"gray"`
	Silver  float64 `json:"silver"`
	White   float64 `json:"white"`
}

// NewColorset builds a colorset from per-color percentages; absent colors
// stay at 0.
func NewColorset(mediafileID int64, percentages map[string]float64) *Colorset {
	cs := &Colorset{MediafileID: mediafileID}
	for i, name := range ColorNames {
		*cs.fields()[i] = percentages[name]
	}

	return cs
}

// Percentages returns the colorset as a name-to-percentage map.
func (c *Colorset) Percentages() map[string]float64 {
	out := make(map[string]float64, len(ColorNames))
	for i, name := range ColorNames {
		out[name] = *c.fields()[i]
	}

	return out
}

func (c *Colorset) fields() []*float64 {
	return []*float64{
		&c.Maroon, &c.Red, &c.Orange, &c.Yellow, &c.Olive, &c.Green, &c.Lime,
		&c.Teal, &c.Aqua, &c.Blue, &c.Navy, &c.Fuchsia, &c.Purple, &c.Black,
		&c.Gray, &c.Silver, &c.White,
	}
}

func (c *Colorset) Table() string { return "mediafiles_colorsets" }

func (c *Colorset) Columns() []string {
	return append(append(baseColumns(), "mediafile_id"), ColorNames...)
}

func (c *Colorset) Values() []any {
	values := []any{c.ID, c.CreatedAt, c.UpdatedAt, c.MediafileID}
	for _, f := range c.fields() {
		values = append(values, *f)
	}

	return values
}

func (c *Colorset) Pointers() []any {
	pointers := []any{&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.MediafileID}
	for _, f := range c.fields() {
		pointers = append(pointers, f)
	}

	return pointers
}
