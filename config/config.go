package config

type (
	NET struct {
		// RequestSizeLimit bounds the head and the body of a request
		// combined, in bytes. The arena is allocated exactly this big,
		// so the value is also the worst-case memory footprint of an
		// endpoint. Changing it via Tune reallocates the arena.
		RequestSizeLimit int
		// DisableNoDelay keeps Nagle's algorithm enabled on accepted
		// connections. TCP_NODELAY is set on every connection otherwise,
		// which is what a request-response exchange over a short-lived
		// socket wants.
		DisableNoDelay bool
	}

	Body struct {
		// Eager makes the endpoint fetch the declared body during
		// parsing, before the request is handed out. By default the
		// body stays on the socket until the first Body() call.
		Eager bool
	}
)

type Config struct {
	NET  NET
	Body Body
}

func Default() Config {
	return Config{
		NET: NET{
			RequestSizeLimit: 4096,
			DisableNoDelay:   false,
		},
		Body: Body{
			Eager: false,
		},
	}
}

// Fill replaces zero values of the config with defaults.
func Fill(original Config) (modified Config) {
	defaultConfig := Default()

	original.NET.RequestSizeLimit = customOrDefault(
		original.NET.RequestSizeLimit, defaultConfig.NET.RequestSizeLimit,
	)

	return original
}

func customOrDefault(custom, defaultVal int) int {
	if custom == 0 {
		return defaultVal
	}

	return custom
}
