package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/otcheredev/membership-data-plane/internal/store"
)

// Entity type tags embedded in sequential ids: <businessPrefix><tag><n>.
const (
	TagComment = "COM"
	TagLeave   = "LEV"
	TagPayment = "PAY"
	TagShift   = "SH"
	TagCard    = "CRD"
)

// businessIDPrefix scopes tenant ids by creation year, not by tenant.
const businessIDPrefix = "business_id_"

// NextEntityID computes the next sequential id for an entity collection:
// prefix+tag+(max existing numeric suffix)+1, starting at 1 when no document
// matches. The id field of each document is matched against prefix+tag;
// documents with a different prefix or a non-numeric suffix are skipped, never
// an error. The scan is not atomic: two concurrent callers can compute the
// same id (tenants are single-writer in practice).
func NextEntityID(prefix, tag, idField string, docs []store.Document) string {
	full := prefix + tag
	max := 0
	for _, d := range docs {
		id, _ := d.Data[idField].(string)
		if !strings.HasPrefix(id, full) {
			continue
		}
		n, err := strconv.Atoi(id[len(full):])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return full + strconv.Itoa(max+1)
}

// NextBusinessID computes the next tenant id for the given creation year,
// scanning the storage keys of every existing business document.
func NextBusinessID(year int, docs []store.Document) string {
	prefix := fmt.Sprintf("%s%d_", businessIDPrefix, year)
	max := 0
	for _, d := range docs {
		if !strings.HasPrefix(d.ID, prefix) {
			continue
		}
		n, err := strconv.Atoi(d.ID[len(prefix):])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return prefix + strconv.Itoa(max+1)
}
