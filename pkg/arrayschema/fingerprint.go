package arrayschema

import "github.com/spaolacci/murmur3"

// Fingerprint returns a 64-bit digest of the schema's exact wire bytes,
// via murmur3.Sum64(Serialize()). Two schemas that serialize identically
// always fingerprint identically, and a schema's fingerprint survives a
// serialize/deserialize/re-serialize round trip.
func (s *Schema) Fingerprint() (uint64, error) {
	data, err := s.Serialize()
	if err != nil {
		return 0, err
	}
	return murmur3.Sum64(data), nil
}
