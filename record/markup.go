package record

import "strings"

// escape on output covers only & < > - quotes pass through verbatim.
// unescape accepts all five standard entities. The asymmetry is part
// of the exchange format and callers depend on it.
var (
	markupEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	markupUnescaper = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
)

// ParseMarkup decodes the tag form of a record: every <Field>value</Field>
// with a legal field name stores an unescaped value, in tag order.
// Tags with unknown names (the <record> envelope included) and text
// outside a known field's tags are skipped. With allowNew, unknown
// but syntactically valid names become new fields. Never fails.
func ParseMarkup(text string, fs *FieldSet, allowNew bool) *Record {
	r := New(fs)
	cur := ""
	var val strings.Builder
	for len(text) > 0 {
		lt := strings.IndexByte(text, '<')
		if lt == -1 {
			break
		}
		if cur != "" {
			val.WriteString(text[:lt])
		}
		text = text[lt+1:]
		gt := strings.IndexByte(text, '>')
		if gt == -1 {
			break
		}
		tag := text[:gt]
		text = text[gt+1:]
		if closing, ok := strings.CutPrefix(tag, "/"); ok {
			if cur != "" && closing == cur {
				r.values[cur] = append(r.values[cur], markupUnescaper.Replace(val.String()))
				cur = ""
			}
			continue
		}
		if r.fs.Has(tag) || (allowNew && ValidFieldName(tag)) {
			r.fs.Add(tag)
			cur = tag
			val.Reset()
		}
	}
	return r
}

// SerializeMarkup wraps the record's fields in a <record> envelope,
// one <Field>value</Field> line per value, fields in fieldOrder.
func SerializeMarkup(r *Record, fieldOrder []string) string {
	var sb strings.Builder
	sb.WriteString("<record>\n")
	for _, field := range fieldOrder {
		for _, v := range r.values[field] {
			sb.WriteString("<")
			sb.WriteString(field)
			sb.WriteString(">")
			sb.WriteString(markupEscaper.Replace(v))
			sb.WriteString("</")
			sb.WriteString(field)
			sb.WriteString(">\n")
		}
	}
	sb.WriteString("</record>")
	return sb.String()
}
