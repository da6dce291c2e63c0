package harbor

import (
	"encoding/json"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/marinadb/marina"
)

// The field validator checks inbound field sets before they reach
// storage. Rules are evaluated in declaration order and the first
// failing rule wins. Two outcomes exist: a required attribute is
// missing or empty, or a present attribute holds an invalid value.

var (
	errMissingAttribute = &marina.Error{
		Code: marina.EEmptyValue,
		Msg:  "the request object is missing at least one of the required attributes",
	}

	errInvalidAttribute = &marina.Error{
		Code: marina.EInvalid,
		Msg:  "the request object has at least one invalid value assigned to an attribute",
	}
)

// fields is a raw decoded JSON object. Numbers are json.Number so that
// the integer rule can reject floating-point and string values alike.
type fields map[string]interface{}

// decodeFields reads a JSON object from r. Supported attributes are
// picked out by the per-kind validators; any additional ones are
// ignored.
func decodeFields(r io.Reader) (fields, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	f := fields{}
	if err := dec.Decode(&f); err != nil {
		return nil, &marina.Error{
			Code: marina.EInvalid,
			Msg:  "invalid json structure",
			Err:  err,
		}
	}
	return f, nil
}

// textValue extracts a text attribute. Text attributes may contain only
// letters, digits and whitespace.
func (f fields) textValue(key string) (string, bool, error) {
	v, ok := f[key]
	if !ok {
		return "", false, nil
	}

	s, ok := v.(string)
	if !ok {
		return "", true, errInvalidAttribute
	}
	// An empty string is treated as absent, not as "clear the field".
	if s == "" {
		return "", false, nil
	}

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return "", true, errInvalidAttribute
		}
	}
	return s, true, nil
}

// intValue extracts an integer attribute. Floating-point values and
// numeric strings are rejected.
func (f fields) intValue(key string) (int, bool, error) {
	v, ok := f[key]
	if !ok {
		return 0, false, nil
	}

	n, ok := v.(json.Number)
	if !ok || strings.ContainsAny(n.String(), ".eE") {
		return 0, true, errInvalidAttribute
	}

	i, err := n.Int64()
	if err != nil {
		return 0, true, errInvalidAttribute
	}
	return int(i), true, nil
}

// boolValue extracts a boolean attribute.
func (f fields) boolValue(key string) (bool, bool, error) {
	v, ok := f[key]
	if !ok {
		return false, false, nil
	}

	b, ok := v.(bool)
	if !ok {
		return false, true, errInvalidAttribute
	}
	return b, true, nil
}

// dateValue extracts a calendar-date attribute: exactly 10 characters,
// parseable as MM/DD/YYYY.
func (f fields) dateValue(key string) (string, bool, error) {
	v, ok := f[key]
	if !ok {
		return "", false, nil
	}

	s, ok := v.(string)
	if !ok {
		return "", true, errInvalidAttribute
	}
	if s == "" {
		return "", false, nil
	}

	if len(s) != 10 {
		return "", true, errInvalidAttribute
	}
	if _, err := time.Parse("01/02/2006", s); err != nil {
		return "", true, errInvalidAttribute
	}
	return s, true, nil
}

// boatFromFields validates the full field set required to create or
// replace a boat.
func boatFromFields(f fields) (*marina.Boat, error) {
	name, ok, err := f.textValue("name")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errMissingAttribute
	}

	typ, ok, err := f.textValue("type")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errMissingAttribute
	}

	length, ok, err := f.intValue("length")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errMissingAttribute
	}
	if length < 0 {
		return nil, errInvalidAttribute
	}

	public, _, err := f.boolValue("public")
	if err != nil {
		return nil, err
	}

	return &marina.Boat{
		Name:   name,
		Type:   typ,
		Length: length,
		Public: public,
		Loads:  []marina.ID{},
	}, nil
}

// boatUpdateFromFields validates each present field individually;
// absent fields are left untouched.
func boatUpdateFromFields(f fields) (marina.BoatUpdate, error) {
	var upd marina.BoatUpdate

	if name, ok, err := f.textValue("name"); err != nil {
		return upd, err
	} else if ok {
		upd.Name = &name
	}

	if typ, ok, err := f.textValue("type"); err != nil {
		return upd, err
	} else if ok {
		upd.Type = &typ
	}

	if length, ok, err := f.intValue("length"); err != nil {
		return upd, err
	} else if ok {
		if length < 0 {
			return upd, errInvalidAttribute
		}
		upd.Length = &length
	}

	if public, ok, err := f.boolValue("public"); err != nil {
		return upd, err
	} else if ok {
		upd.Public = &public
	}

	return upd, nil
}

// loadFromFields validates the full field set required to create or
// replace a load.
func loadFromFields(f fields) (*marina.Load, error) {
	item, ok, err := f.textValue("item")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errMissingAttribute
	}

	volume, ok, err := f.intValue("volume")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errMissingAttribute
	}

	date, ok, err := f.dateValue("creation_date")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errMissingAttribute
	}

	return &marina.Load{
		Item:         item,
		Volume:       volume,
		CreationDate: date,
	}, nil
}

// loadUpdateFromFields validates each present field individually.
func loadUpdateFromFields(f fields) (marina.LoadUpdate, error) {
	var upd marina.LoadUpdate

	if item, ok, err := f.textValue("item"); err != nil {
		return upd, err
	} else if ok {
		upd.Item = &item
	}

	if volume, ok, err := f.intValue("volume"); err != nil {
		return upd, err
	} else if ok {
		upd.Volume = &volume
	}

	if date, ok, err := f.dateValue("creation_date"); err != nil {
		return upd, err
	} else if ok {
		upd.CreationDate = &date
	}

	return upd, nil
}

// slipFromFields validates the full field set required to create a slip.
func slipFromFields(f fields) (*marina.Slip, error) {
	number, ok, err := f.intValue("number")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errMissingAttribute
	}

	return &marina.Slip{
		Number: number,
	}, nil
}

// slipUpdateFromFields validates each present field individually.
func slipUpdateFromFields(f fields) (marina.SlipUpdate, error) {
	var upd marina.SlipUpdate

	if number, ok, err := f.intValue("number"); err != nil {
		return upd, err
	} else if ok {
		upd.Number = &number
	}

	return upd, nil
}
