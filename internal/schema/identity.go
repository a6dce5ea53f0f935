package schema

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/goccy/go-json"
)

// DomainSchema separates schema identity hashes from any other hash the
// database might store.
const DomainSchema = "reptrack/schema/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// IdentityOf computes the identity hash of a set of table descriptors.
// Struct fields marshal in declaration order, so the encoding is stable.
func IdentityOf(tables []Table) (string, error) {
	data, err := json.Marshal(tables)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainSchema, data), nil
}

// Identity returns the identity hash of the current expected schema.
func Identity() string {
	id, err := IdentityOf(Tables())
	if err != nil {
		// Tables are static plain structs; marshalling cannot fail.
		panic("schema: identity: " + err.Error())
	}
	return id
}
