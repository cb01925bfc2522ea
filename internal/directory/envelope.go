package directory

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// protocolVersion is the fixed version string the service expects in every
// authentication block.
const protocolVersion = "1.0"

// authentication is the ordered credential block carried by every method
// element. Field order matters to the legacy service; do not reorder.
type authentication struct {
	User      string `xml:"User"`
	Password  string `xml:"Password"`
	CompanyID string `xml:"CompanyID"`
	Version   string `xml:"Version"`
}

// customerID is the identifier half of a customer reference. The service
// requires an explicit validity marker alongside the value.
type customerID struct {
	ID      string `xml:"ID"`
	IsValid bool   `xml:"IsValid"`
}

// customerCode is the business-key half of a customer reference.
type customerCode struct {
	Code    string `xml:"Code"`
	IsValid bool   `xml:"IsValid"`
}

// getCustomer is the lookup method payload: a zero, invalid identifier and a
// valid business code.
type getCustomer struct {
	XMLName xml.Name       `xml:"GetCustomer"`
	Auth    authentication `xml:"Authentication"`
	ID      customerID     `xml:"CustomerID"`
	Code    customerCode   `xml:"CustomerCode"`
}

// updateCustomerWebsite is the persist method payload.
type updateCustomerWebsite struct {
	XMLName xml.Name       `xml:"UpdateCustomerWebsite"`
	Auth    authentication `xml:"Authentication"`
	ID      customerID     `xml:"CustomerID"`
	Code    customerCode   `xml:"CustomerCode"`
	Website string         `xml:"Website"`
}

// envelope is the outer request wrapper.
type envelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    body     `xml:"Body"`
}

type body struct {
	Method any
}

// MarshalXML writes the body element around the method payload.
func (b body) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name.Local = "Body"
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.Encode(b.Method); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

// encodeEnvelope serializes a method payload into the full request envelope.
func encodeEnvelope(method any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(envelope{Body: body{Method: method}}); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// fieldText extracts the scalar value of the first element named tag from a
// response document. Identifier and code fields arrive wrapped in an inner
// ID or Code element; simple fields hold their text directly. A missing tag
// yields an empty string: decoding degrades field by field, it never fails.
func fieldText(doc []byte, tag string) string {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != tag {
			continue
		}
		return strings.TrimSpace(elementText(dec, start.Name))
	}
}

// elementText collects the value inside an already-entered element. When the
// first child element is an ID or Code wrapper, its text is returned;
// otherwise the element's direct character data is accumulated. Depth
// tracking skips any other nested elements (e.g. IsValid markers).
func elementText(dec *xml.Decoder, name xml.Name) string {
	var direct strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return direct.String()
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && (t.Name.Local == "ID" || t.Name.Local == "Code") {
				return wrappedText(dec, t.Name)
			}
			depth++
		case xml.EndElement:
			if depth == 0 && t.Name == name {
				return direct.String()
			}
			if depth > 0 {
				depth--
			}
		case xml.CharData:
			if depth == 0 {
				direct.Write(t)
			}
		}
	}
}

// wrappedText returns the character data of an already-entered wrapper element.
func wrappedText(dec *xml.Decoder, name xml.Name) string {
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return b.String()
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if t.Name == name {
				return b.String()
			}
		}
	}
}
