package provider

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"transcribe-all/internal/app/api"
	apperrors "transcribe-all/internal/app/errors"
)

// ProviderCreator builds a transcriber from one provider's configuration.
type ProviderCreator func(config ProviderConfig) (api.Transcriber, error)

type registration struct {
	creator ProviderCreator
	info    ProviderInfo
}

// providerRegistry stores provider creation functions
var (
	providerRegistry = make(map[string]registration)
	registryMutex    sync.RWMutex
)

// RegisterProvider registers a provider creator function. Provider packages
// call it from init.
func RegisterProvider(providerType string, creator ProviderCreator, info ProviderInfo) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	if info.Name == "" {
		info.Name = providerType
	}
	providerRegistry[providerType] = registration{creator: creator, info: info}
}

// GetProviderCreator returns the creator function for a provider type
func GetProviderCreator(providerType string) (ProviderCreator, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	reg, ok := providerRegistry[providerType]
	if !ok {
		return nil, apperrors.Mark(apperrors.ErrProviderNotFound, apperrors.Newf("provider type %s not registered", providerType))
	}
	return reg.creator, nil
}

// GetProviderInfo returns the metadata registered with a provider type.
func GetProviderInfo(providerType string) (ProviderInfo, bool) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	reg, ok := providerRegistry[providerType]
	return reg.info, ok
}

// ListRegisteredProviders returns all registered provider types, sorted.
func ListRegisteredProviders() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	providers := lo.Keys(providerRegistry)
	sort.Strings(providers)
	return providers
}

func unregisterProvider(providerType string) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	delete(providerRegistry, providerType)
}
