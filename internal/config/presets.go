package config

var Presets = map[string]map[string]*Config{
	"lorenz": {
		"quick": {
			System: "lorenz", Optimizer: "strridge", Dt: 0.01, Duration: 5.0,
			Library: LibraryConfig{Degree: 2},
			Fit:     FitConfig{Threshold: 0.1, Ridge: 0.05, MaxIter: 200},
		},
		"fine": {
			System: "lorenz", Optimizer: "strridge", Dt: 0.002, Duration: 20.0,
			Library: LibraryConfig{Degree: 2},
			Fit:     FitConfig{Threshold: 0.05, Ridge: 0.01, MaxIter: 500, Parallel: true},
		},
		"relaxed": {
			System: "lorenz", Optimizer: "sr3", Dt: 0.01, Duration: 10.0,
			Library: LibraryConfig{Degree: 2},
			Fit:     FitConfig{Threshold: 0.1, Nu: 1.0, Kernel: "hard", MaxIter: 5000},
		},
	},
	"vanderpol": {
		"cycle": {
			System: "vanderpol", Optimizer: "strridge", Dt: 0.01, Duration: 20.0,
			Library: LibraryConfig{Degree: 3},
			Fit:     FitConfig{Threshold: 0.1, Ridge: 0.05, MaxIter: 200},
		},
		"stiff": {
			System: "vanderpol", Optimizer: "strridge", Dt: 0.002, Duration: 30.0,
			Params:  map[string]float64{"mu": 5.0},
			Library: LibraryConfig{Degree: 3},
			Fit:     FitConfig{Threshold: 0.2, Ridge: 0.05, MaxIter: 500},
		},
	},
	"pendulum": {
		"swing": {
			System: "pendulum", Optimizer: "strridge", Dt: 0.01, Duration: 20.0,
			Library: LibraryConfig{Degree: 1, Trig: true, Harmonics: 1},
			Fit:     FitConfig{Threshold: 0.05, Ridge: 0.01, MaxIter: 200},
		},
	},
	"duffing": {
		"forced": {
			System: "duffing", Optimizer: "strridge", Dt: 0.01, Duration: 40.0,
			Library: LibraryConfig{Degree: 3, Trig: true, Harmonics: 1},
			Fit:     FitConfig{Threshold: 0.1, Ridge: 0.05, MaxIter: 500},
		},
		"gentle": {
			System: "duffing", Optimizer: "admm", Dt: 0.01, Duration: 40.0,
			Params:  map[string]float64{"gamma": 0.2},
			Library: LibraryConfig{Degree: 3, Trig: true, Harmonics: 1},
			Fit:     FitConfig{Threshold: 0.05, Rho: 0.1, Kernel: "soft", MaxIter: 2000},
		},
	},
}

func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	return names
}
