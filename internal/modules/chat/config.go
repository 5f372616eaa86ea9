package chat

// Config holds the chat module configuration.
type Config struct {
	APIKey string `env:"DEEPSEEK_API_KEY,notEmpty"`
	APIURL string `env:"DEEPSEEK_API_URL" envDefault:"https://api.deepseek.com/v1/chat/completions"`
	Model  string `env:"DEEPSEEK_MODEL"   envDefault:"gpt-4o"`

	ElevenLabsAPIKey string `env:"ELEVENLABS_API_KEY"`
	VoiceID          string `env:"ELEVENLABS_VOICE_ID" envDefault:"pNInz6obpgDQGcFmaJgB"`
	TTSLanguage      string `env:"TTS_LANGUAGE"        envDefault:"es"`

	// The clip server must be reachable from the Lavalink node, so the
	// public base URL is configured separately from the listen address.
	ClipListenAddress string `env:"CHAT_CLIP_LISTEN_ADDRESS" envDefault:":8037"`
	ClipBaseURL       string `env:"CHAT_CLIP_BASE_URL"       envDefault:"http://localhost:8037"`

	Prefix          string `env:"CHAT_PREFIX"           envDefault:"!ia"`
	CooldownSeconds int    `env:"CHAT_COOLDOWN_SECONDS" envDefault:"2"`
	CooldownBurst   int    `env:"CHAT_COOLDOWN_BURST"   envDefault:"3"`
}
