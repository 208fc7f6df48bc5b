package redis

// AudioPreferences is stored as four separate string entries, see game_constants
type AudioPreferences struct {
	MusicVolume   float64 `json:"musicVolume"`
	EffectsVolume float64 `json:"effectsVolume"`
	MusicMuted    bool    `json:"musicMuted"`
	EffectsMuted  bool    `json:"effectsMuted"`
}

func DefaultAudioPreferences() AudioPreferences {
	return AudioPreferences{
		MusicVolume:   0.5,
		EffectsVolume: 0.7,
	}
}
