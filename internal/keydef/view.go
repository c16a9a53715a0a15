package keydef

// View is the flat, serialisable form of a Key used in generated data.
type View struct {
	Type        Kind   `json:"type" yaml:"type"`
	Keycode     string `json:"keycode,omitempty" yaml:"keycode,omitempty"`
	Label       string `json:"label" yaml:"label"`
	Modifier    string `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	TargetLayer string `json:"targetLayer,omitempty" yaml:"targetLayer,omitempty"`
	HoldMod     string `json:"holdMod,omitempty" yaml:"holdMod,omitempty"`
	TapKey      *View  `json:"tapKey,omitempty" yaml:"tapKey,omitempty"`
}

// ViewOf flattens k.
func ViewOf(k Key) View {
	v := View{Type: k.Kind(), Keycode: k.Keycode(), Label: k.Label()}

	switch key := k.(type) {
	case ModTapKey:
		tap := ViewOf(key.Tap)
		v.TapKey = &tap
		v.HoldMod = key.HoldMod
	case OneShotModKey:
		v.Modifier = key.Modifier
	case LayerSwitchKey:
		v.TargetLayer = key.Target
	}

	return v
}
