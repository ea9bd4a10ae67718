package votable

// Entity replacement tables indexed by input byte. Attribute text escapes
// all five reserved characters; element content legally contains quotes
// and apostrophes, so only three are replaced there.

var attrEntities = [256]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'\'': "&apos;",
	'"':  "&quot;",
}

var contentEntities = [256]string{
	'&': "&amp;",
	'<': "&lt;",
	'>': "&gt;",
}

// EscapeAttr replaces & < > ' " with their character entities.
// When s needs no escaping it is returned unchanged.
func EscapeAttr(s string) string {
	return escapeString(s, &attrEntities)
}

// EscapeContent replaces & < > with their character entities, leaving
// quotes and apostrophes literal. When s needs no escaping it is
// returned unchanged.
func EscapeContent(s string) string {
	return escapeString(s, &contentEntities)
}

// EscapeAttrBytes is EscapeAttr for byte slices; the input slice is
// returned as-is when clean.
func EscapeAttrBytes(p []byte) []byte {
	return escapeBytes(p, &attrEntities)
}

// EscapeContentBytes is EscapeContent for byte slices; the input slice
// is returned as-is when clean.
func EscapeContentBytes(p []byte) []byte {
	return escapeBytes(p, &contentEntities)
}

func escapeString(s string, entities *[256]string) string {
	count := 0
	for i := 0; i < len(s); i++ {
		if entities[s[i]] != "" {
			count++
		}
	}
	if count == 0 {
		return s
	}
	// Each replacement adds at most 5 bytes over the original character.
	out := make([]byte, 0, len(s)+5*count)
	for i := 0; i < len(s); i++ {
		if ent := entities[s[i]]; ent != "" {
			out = append(out, ent...)
		} else {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func escapeBytes(p []byte, entities *[256]string) []byte {
	count := 0
	for _, c := range p {
		if entities[c] != "" {
			count++
		}
	}
	if count == 0 {
		return p
	}
	out := make([]byte, 0, len(p)+5*count)
	for _, c := range p {
		if ent := entities[c]; ent != "" {
			out = append(out, ent...)
		} else {
			out = append(out, c)
		}
	}
	return out
}
