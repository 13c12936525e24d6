package page

import "net/url"

// prefillKeys are the UTM query parameters re-projected into form fields.
var prefillKeys = []string{"utm_campaign", "utm_term", "utm_source", "utm_medium"}

// FormFieldName returns the input name a UTM key maps to. The bracketed
// naming follows the form-builder convention the sites we track use.
func FormFieldName(utmKey string) string {
	return "form_fields[" + utmKey + "]"
}

// Prefill copies non-empty UTM query values into the first matching named
// input on the page. It is independent of the event pipeline and touches
// neither the session store nor the bindings.
func Prefill(query url.Values, elements []*Element) {
	for _, key := range prefillKeys {
		value := query.Get(key)
		if value == "" {
			continue
		}
		if field := findNamedInput(elements, FormFieldName(key)); field != nil {
			field.Attrs["value"] = value
		}
	}
}

// findNamedInput returns the first element with the given name attribute.
func findNamedInput(elements []*Element, name string) *Element {
	for _, el := range elements {
		if got, ok := el.Attr("name"); ok && got == name {
			return el
		}
	}
	return nil
}
