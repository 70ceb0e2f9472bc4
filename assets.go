package mdmanual

import (
	"fmt"

	"github.com/alnah/go-mdmanual/internal/assets"
)

// newAssetLoader returns the loader for styles and templates. With an empty
// basePath only embedded assets are used; otherwise files under basePath take
// precedence and missing ones fall back to the embedded defaults.
func newAssetLoader(basePath string) (assets.AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return resolver, nil
}
