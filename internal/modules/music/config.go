package music

// Config holds the music module configuration.
type Config struct {
	QueueCapacity int `env:"MUSIC_QUEUE_CAPACITY" envDefault:"50"`
}
