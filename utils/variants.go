package utils

import "fmt"

type Variant struct {
	Name       string
	NumWindows int
	WindowSize int
	// InputBits is the fixed input length used when the variant backs a circuit.
	InputBits int
}

var Variants = []Variant{
	{Name: "bhp256", NumWindows: 3, WindowSize: 57, InputBits: 256},
	{Name: "bhp512", NumWindows: 6, WindowSize: 43, InputBits: 512},
	{Name: "bhp768", NumWindows: 15, WindowSize: 23, InputBits: 768},
	{Name: "bhp1024", NumWindows: 8, WindowSize: 54, InputBits: 1024},
	{Name: "bhp-32x48", NumWindows: 32, WindowSize: 48, InputBits: 1024},
}

func LookupVariant(name string) (Variant, bool) {
	for _, v := range Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// SetupVariant builds the parameters of a named variant under domain.
func SetupVariant(name, domain string) (*BHPParams, error) {
	v, ok := LookupVariant(name)
	if !ok {
		return nil, fmt.Errorf("unknown BHP variant: %s", name)
	}
	return SetupBHP(domain, v.NumWindows, v.WindowSize)
}
