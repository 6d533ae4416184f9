package cli

import "time"

// StringFlag is a definition of a command flag expected to be parsed as a
// string.
//
// - implements cli.Flag
type StringFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    string
}

// GetName implements cli.Flag.
func (flag StringFlag) GetName() string {
	return flag.Name
}

// DurationFlag is a definition of a command flag expected to be parsed as a
// duration.
//
// - implements cli.Flag
type DurationFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    time.Duration
}

// GetName implements cli.Flag.
func (flag DurationFlag) GetName() string {
	return flag.Name
}

// IntFlag is a definition of a command flag expected to be parsed as a integer.
//
// - implements cli.Flag
type IntFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    int
}

// GetName implements cli.Flag.
func (flag IntFlag) GetName() string {
	return flag.Name
}

// BoolFlag is a definition of a command flag expected to be parsed as a
// boolean.
//
// - implements cli.Flag
type BoolFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    bool
}

// GetName implements cli.Flag.
func (flag BoolFlag) GetName() string {
	return flag.Name
}
