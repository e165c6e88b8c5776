package lab

const (
	DefaultStiffness     = 1.0
	MinStiffness         = 0.5
	MaxStiffness         = 3.0
	StiffnessStep        = 0.02
	DefaultPickRadius    = 20.0
	DoubleClickWindow    = 0.5
	DoubleClickDistance  = 10.0
	ClickDistance        = 10.0
	LinkDistance         = 20.0
	LinkRestRatio        = 0.8
	DefaultNodeMass      = 1.0
	WheelMassScale       = 50.0
	DefaultSpringDamping = 0.03
)

// Options holds the interaction thresholds. Distances are in world units,
// times in seconds of accumulated frame time.
type Options struct {
	Stiffness           float64
	MinStiffness        float64
	MaxStiffness        float64
	StiffnessStep       float64
	Damping             float64
	StringMode          bool
	PickRadius          float64
	DoubleClickWindow   float64
	DoubleClickDistance float64
	ClickDistance       float64
	LinkDistance        float64
	LinkRestRatio       float64
	NodeMass            float64
	WheelMassScale      float64
}

func DefaultOptions() Options {
	return Options{
		Stiffness:           DefaultStiffness,
		MinStiffness:        MinStiffness,
		MaxStiffness:        MaxStiffness,
		StiffnessStep:       StiffnessStep,
		Damping:             DefaultSpringDamping,
		PickRadius:          DefaultPickRadius,
		DoubleClickWindow:   DoubleClickWindow,
		DoubleClickDistance: DoubleClickDistance,
		ClickDistance:       ClickDistance,
		LinkDistance:        LinkDistance,
		LinkRestRatio:       LinkRestRatio,
		NodeMass:            DefaultNodeMass,
		WheelMassScale:      WheelMassScale,
	}
}
