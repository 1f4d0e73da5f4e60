package conf

import (
	"time"
)

// Duration is a duration that unmarshals from a string ("10s", "1m30s")
// instead of a number.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var in string
	if err := unmarshal(&in); err != nil {
		return err
	}
	return d.SetValue(in)
}

// SetValue implements cleanenv.Setter, so environment overrides use the
// same string form.
func (d *Duration) SetValue(in string) error {
	du, err := time.ParseDuration(in)
	if err != nil {
		return err
	}
	*d = Duration(du)
	return nil
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return time.Duration(d).String()
}
