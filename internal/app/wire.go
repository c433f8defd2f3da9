//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"transcribe-all/internal/app/converter"
	"transcribe-all/internal/config"
)

// InitializeBatchConverter builds a converter for one run. The returned
// cleanup flushes the logger and restores the previous global logger.
func InitializeBatchConverter(settings *config.Settings) (*converter.BatchConverter, func(), error) {
	wire.Build(
		ProviderSet,
		converter.NewLazyBatchConverter,
	)
	return nil, nil, nil
}
