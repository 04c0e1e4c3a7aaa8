package codec

import "errors"

// CodecAPI is the registration record through which the plugin registry
// interacts with a codec. The lifecycle hooks are optional; the factory
// hooks are required. It carries no runtime state of its own.
type CodecAPI struct {
	Name    string
	Help    string
	Version string

	// Global lifecycle, run once per process.
	PInit func()
	PTerm func()

	// Worker lifecycle, run once per worker before/after that worker
	// processes any packets.
	TInit func()
	TTerm func()

	// Factory hooks.
	Ctor func(cfg map[string]any) Codec
	Dtor func(Codec)
}

// Validate checks the required fields of a registration record.
func (api *CodecAPI) Validate() error {
	if api.Name == "" {
		return errors.New("codec: registration record needs a name")
	}
	if api.Ctor == nil || api.Dtor == nil {
		return errors.New("codec: registration record needs ctor and dtor")
	}
	return nil
}
