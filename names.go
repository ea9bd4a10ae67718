package votable

// tagTD is the shared instance handed out for every TD element, the
// cell tag that dominates real tables.
const tagTD = "TD"

// nameCache interns element names so a document with millions of
// identical tags allocates each name string once.
type nameCache struct {
	table map[string]string
}

func newNameCache() *nameCache {
	return &nameCache{table: make(map[string]string, 16)}
}

// intern returns the canonical string for a local name. The TD check
// avoids even the map lookup on the hot path.
func (c *nameCache) intern(local []byte) string {
	if len(local) == 2 && local[0] == 'T' && local[1] == 'D' {
		return tagTD
	}
	if name, ok := c.table[string(local)]; ok {
		return name
	}
	name := string(local)
	c.table[name] = name
	return name
}
