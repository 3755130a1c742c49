// Package xml implements the XPath hash extraction mode using
// github.com/antchfx/xmlquery and github.com/antchfx/xpath, grounded on
// the XPath usage in cashapp-hermit manifests.
package xml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Extract parses body as XML/HTML-ish markup and evaluates the XPath
// expression xpathExpr against it, returning the matched node's trimmed
// inner text.
func Extract(body []byte, xpathExpr string) (string, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse xml body: %w", err)
	}
	node := xmlquery.FindOne(doc, xpathExpr)
	if node == nil {
		return "", fmt.Errorf("xpath %q matched nothing", xpathExpr)
	}
	return strings.TrimSpace(node.InnerText()), nil
}
