package codec

import (
	"webpbatch/batch"
	"webpbatch/config"
)

// New picks the converter the config asks for: the external command
// template when CODEC_CMD is set, otherwise the built-in encoder.
func New(cfg *config.Config) (batch.Converter, error) {
	if cfg.CodecCmd != "" {
		return NewExternal(cfg.CodecCmd)
	}
	return NewWebP(cfg.MaxInputSize), nil
}
