package contact

import (
	"context"
	"fmt"
	"os"

	"locuscore/pkg/domain"
)

// Open selects a contact provider implementation using environment variables.
//
//	LOCUSCORE_CONTACT_DRIVER: fs|s3|memory (default fs)
//	LOCUSCORE_CONTACT_FS_ROOT: directory root when driver=fs (default ./contactmaps)
//	LOCUSCORE_CONTACT_CACHE: lookup cache size, 0 disables (default 4096)
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context) (domain.ContactProvider, error) {
	driver := os.Getenv("LOCUSCORE_CONTACT_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	var (
		provider domain.ContactProvider
		err      error
	)
	switch Driver(driver) {
	case DriverFilesystem:
		provider, err = NewFilesystem(os.Getenv("LOCUSCORE_CONTACT_FS_ROOT"))
	case DriverS3:
		provider, err = OpenS3FromEnv(ctx)
	case DriverMemory:
		provider = NewMemory()
	default:
		return nil, fmt.Errorf("unknown contact driver %s", driver)
	}
	if err != nil {
		return nil, err
	}
	if size := os.Getenv("LOCUSCORE_CONTACT_CACHE"); size != "0" {
		return NewCached(provider, parseCacheSize(size))
	}
	return provider, nil
}

func parseCacheSize(raw string) int {
	if raw == "" {
		return DefaultCacheSize
	}
	size := 0
	if _, err := fmt.Sscanf(raw, "%d", &size); err != nil || size <= 0 {
		return DefaultCacheSize
	}
	return size
}
