package profile

import (
	"fmt"
)

// LoadFile parses a profiles.config file and returns every profile it
// declares, keyed by name.
func LoadFile(path string) (map[string]*DeviceProfile, error) {
	parser, err := newConfigParser()
	if err != nil {
		return nil, err
	}

	cfg, err := parser.parseFile(path)
	if err != nil {
		return nil, err
	}

	return build(cfg)
}

func build(cfg *configFile) (map[string]*DeviceProfile, error) {
	profiles := make(map[string]*DeviceProfile, len(cfg.Profiles))
	for _, decl := range cfg.Profiles {
		p, err := buildProfile(decl)
		if err != nil {
			return nil, err
		}
		if _, dup := profiles[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate profile name %q", ErrProfileParse, p.Name)
		}
		profiles[p.Name] = p
	}
	return profiles, nil
}

func buildProfile(decl *profileDecl) (*DeviceProfile, error) {
	name := unquote(decl.Name)
	p := &DeviceProfile{
		Name:     name,
		Device:   name,
		PinNames: make(map[int]string),
		hiZBit:   make(map[int]int),
	}

	var (
		addrSet = map[int]int{} // bit position -> PAL pin number
		dataSet = map[int]int{}
	)

	for _, f := range decl.Fields {
		switch {
		case f.Pin != nil:
			if err := applyPin(p, f.Pin, addrSet, dataSet); err != nil {
				return nil, err
			}
		case f.Assign != nil:
			if err := applyAssign(p, f.Assign); err != nil {
				return nil, err
			}
		}
	}

	if p.AddressWidth == 0 {
		p.AddressWidth = maxKey(addrSet) + 1
	}
	if p.DataWidth == 0 {
		p.DataWidth = maxKey(dataSet) + 1
	}

	p.AddressPins = make([]int, p.AddressWidth)
	for bit := 0; bit < p.AddressWidth; bit++ {
		pin, ok := addrSet[bit]
		if !ok {
			return nil, fmt.Errorf("%w: profile %q: address bit %d has no assigned pin", ErrProfileParse, name, bit)
		}
		p.AddressPins[bit] = pin
	}

	p.DataPins = make([]int, p.DataWidth)
	for bit := 0; bit < p.DataWidth; bit++ {
		pin, ok := dataSet[bit]
		if !ok {
			return nil, fmt.Errorf("%w: profile %q: data bit %d has no assigned pin", ErrProfileParse, name, bit)
		}
		p.DataPins[bit] = pin
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func applyPin(p *DeviceProfile, pin *pinDecl, addrSet, dataSet map[int]int) error {
	p.PinNames[pin.Number] = pin.Name

	for _, attr := range pin.Attrs {
		switch attr.Key {
		case "addr":
			addrSet[attr.Value] = pin.Number
		case "data":
			dataSet[attr.Value] = pin.Number
		case "hiz":
			p.hiZBit[pin.Number] = attr.Value
		default:
			return fmt.Errorf("%w: profile %q: unknown pin attribute %q", ErrProfileParse, p.Name, attr.Key)
		}
	}
	return nil
}

func applyAssign(p *DeviceProfile, a *assign) error {
	switch a.Key {
	case "device":
		p.Device = valueString(a.Value)
	case "address_width":
		p.AddressWidth = valueInt(a.Value)
	case "data_width":
		p.DataWidth = valueInt(a.Value)
	case "output_count":
		p.OutputPinCount = valueInt(a.Value)
	case "hiz_probes":
		p.HiZProbePins = valueInt(a.Value)
	case "endianness":
		switch valueString(a.Value) {
		case "little":
			p.Endianness = LittleEndian
		case "big":
			p.Endianness = BigEndian
		default:
			return fmt.Errorf("%w: profile %q: endianness must be little or big", ErrProfileParse, p.Name)
		}
	default:
		return fmt.Errorf("%w: profile %q: unknown field %q", ErrProfileParse, p.Name, a.Key)
	}
	return nil
}

func valueInt(v value) int {
	if v.Int != nil {
		return *v.Int
	}
	return 0
}

func valueString(v value) string {
	switch {
	case v.Str != nil:
		return unquote(*v.Str)
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func maxKey(m map[int]int) int {
	max := -1
	for k := range m {
		if k > max {
			max = k
		}
	}
	return max
}
