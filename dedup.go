package imagetone

import (
	"image"

	"github.com/corona10/goimagehash"
)

// dedupThreshold is the maximum Hamming distance between two dHash values
// below which images are considered perceptually identical.
const dedupThreshold = 10

// perceptualHash returns the dHash of img, or nil if hashing fails.
func perceptualHash(img image.Image) *goimagehash.ImageHash {
	if img == nil {
		return nil
	}
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return nil
	}
	return hash
}

// dedupFilter remembers hashes in the order they are offered.
// Not safe for concurrent use; ToneOfURLs feeds it after all workers finish.
type dedupFilter struct {
	hashes []*goimagehash.ImageHash
}

// isDuplicate returns true if hash is within dedupThreshold of a hash seen
// earlier. A nil hash is never a duplicate and is not stored.
func (d *dedupFilter) isDuplicate(hash *goimagehash.ImageHash) bool {
	if hash == nil {
		return false
	}
	for _, h := range d.hashes {
		dist, err := hash.Distance(h)
		if err == nil && dist < dedupThreshold {
			return true
		}
	}
	d.hashes = append(d.hashes, hash)
	return false
}
