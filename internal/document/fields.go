package document

import (
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// FieldType identifies the kind of an AcroForm field.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeButton    FieldType = "button"
	FieldTypeSelect    FieldType = "select"
	FieldTypeSignature FieldType = "signature"
	FieldTypeUnknown   FieldType = "unknown"
)

// Rect is a widget bounding box in PDF user space (origin bottom-left).
type Rect struct {
	LLx, LLy float64
	URx, URy float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.URx - r.LLx }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.URy - r.LLy }

// FormField describes one AcroForm field. Names are unique within a document
// per the PDF spec; Page is the zero-based page of the field's widget, or -1
// when the widget is not attached to any page.
type FormField struct {
	Name     string
	Type     FieldType
	Value    string
	ReadOnly bool
	Page     int
	Rect     *Rect
}

// FormFields enumerates all AcroForm fields in document order.
func (d *Document) FormFields() ([]FormField, error) {
	if d.closed {
		return nil, ErrClosed
	}

	fieldsArray, _, err := d.acroFields()
	if err != nil || fieldsArray == nil {
		return nil, err
	}

	widgetPages := d.widgetPageMap()

	var fields []FormField
	for _, fieldRef := range fieldsArray {
		field, err := d.readField(fieldRef, widgetPages)
		if err != nil {
			// Skip malformed entries, matching viewer behavior.
			continue
		}
		if field != nil {
			fields = append(fields, *field)
		}
	}
	return fields, nil
}

// SetFieldValue overwrites the value of the named field in place. No
// validation is performed against the field type; the later of two writes to
// the same field wins. The widget appearance stream is dropped and
// NeedAppearances raised so viewers regenerate it from the new value.
func (d *Document) SetFieldValue(name, value string) error {
	if d.closed {
		return ErrClosed
	}

	fieldsArray, acroForm, err := d.acroFields()
	if err != nil {
		return err
	}
	if fieldsArray == nil {
		return fmt.Errorf("%s: %w", name, ErrFieldNotFound)
	}

	fieldDict := d.findFieldDict(fieldsArray, name)
	if fieldDict == nil {
		return fmt.Errorf("%s: %w", name, ErrFieldNotFound)
	}

	switch d.fieldType(fieldDict) {
	case FieldTypeCheckbox, FieldTypeRadio:
		// Button values are appearance state names, e.g. "Yes" / "Off".
		state := strings.TrimPrefix(value, "/")
		fieldDict["V"] = types.Name(state)
		fieldDict["AS"] = types.Name(state)
	default:
		fieldDict["V"] = types.StringLiteral(escapeStringLiteral(value))
	}

	// Stale appearance streams would keep showing the old value.
	delete(fieldDict, "AP")
	d.dropKidAppearances(fieldDict)
	acroForm["NeedAppearances"] = types.Boolean(true)

	d.mutated()
	return nil
}

// acroFields resolves the AcroForm dictionary and its Fields array. Both
// return values are nil when the document carries no form.
func (d *Document) acroFields() (types.Array, types.Dict, error) {
	rootDict, err := d.ctx.Catalog()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil, nil
	}

	acroFormDict, err := d.ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return nil, nil, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, acroFormDict, nil
	}

	fieldsArray, err := d.ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	return fieldsArray, acroFormDict, nil
}

// readField converts one entry of the Fields array into a FormField.
func (d *Document) readField(fieldObj types.Object, widgetPages map[int]int) (*FormField, error) {
	fieldDict, err := d.ctx.DereferenceDict(fieldObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference field: %w", err)
	}
	if fieldDict == nil {
		return nil, nil
	}

	field := &FormField{Page: -1}

	if nameObj, found := fieldDict.Find("T"); found {
		if name, err := d.ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
			field.Name = name
		}
	}
	if field.Name == "" {
		// Un-named widgets are not addressable by the editor.
		return nil, nil
	}

	field.Type = d.fieldType(fieldDict)
	field.Value = d.fieldValue(fieldDict)

	if flagsObj, found := fieldDict.Find("Ff"); found {
		if flags, err := d.ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
			field.ReadOnly = (*flags & 1) != 0 // bit 1
		}
	}

	field.Rect = d.fieldRect(fieldDict)

	if page, ok := widgetPages[objectNumber(fieldObj)]; ok {
		field.Page = page
	} else if kidsObj, found := fieldDict.Find("Kids"); found {
		if kids, err := d.ctx.DereferenceArray(kidsObj); err == nil && len(kids) > 0 {
			if page, ok := widgetPages[objectNumber(kids[0])]; ok {
				field.Page = page
			}
		}
	}

	return field, nil
}

// fieldType determines the field type from the FT entry, walking up to the
// parent for inherited types.
func (d *Document) fieldType(fieldDict types.Dict) FieldType {
	ftObj, found := fieldDict.Find("FT")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := d.ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return d.fieldType(parentDict)
			}
		}
		return FieldTypeUnknown
	}

	ftName, err := d.ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return FieldTypeUnknown
	}

	switch ftName {
	case "Btn":
		if flagsObj, found := fieldDict.Find("Ff"); found {
			if flags, err := d.ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
				if (*flags & (1 << 15)) != 0 { // bit 16: radio
					return FieldTypeRadio
				}
				if (*flags & (1 << 16)) != 0 { // bit 17: pushbutton
					return FieldTypeButton
				}
			}
		}
		return FieldTypeCheckbox
	case "Tx":
		return FieldTypeText
	case "Ch":
		return FieldTypeSelect
	case "Sig":
		return FieldTypeSignature
	default:
		return FieldTypeUnknown
	}
}

// fieldValue renders the V entry as a display string.
func (d *Document) fieldValue(fieldDict types.Dict) string {
	valueObj, found := fieldDict.Find("V")
	if !found {
		return ""
	}

	if val, err := d.ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
		return val
	}
	if name, err := d.ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
		return string(name)
	}
	return ""
}

// fieldRect extracts the widget bounding box from the field dictionary or
// its first kid widget.
func (d *Document) fieldRect(fieldDict types.Dict) *Rect {
	if rectObj, found := fieldDict.Find("Rect"); found {
		if r := d.parseRect(rectObj); r != nil {
			return r
		}
	}

	if kidsObj, found := fieldDict.Find("Kids"); found {
		if kids, err := d.ctx.DereferenceArray(kidsObj); err == nil && len(kids) > 0 {
			if kidDict, err := d.ctx.DereferenceDict(kids[0]); err == nil && kidDict != nil {
				if rectObj, found := kidDict.Find("Rect"); found {
					return d.parseRect(rectObj)
				}
			}
		}
	}
	return nil
}

func (d *Document) parseRect(rectObj types.Object) *Rect {
	rectArray, err := d.ctx.DereferenceArray(rectObj)
	if err != nil || len(rectArray) != 4 {
		return nil
	}

	coords := make([]float64, 4)
	for i, coord := range rectArray {
		if f, err := d.ctx.DereferenceNumber(coord); err == nil {
			coords[i] = f
		}
	}
	return &Rect{LLx: coords[0], LLy: coords[1], URx: coords[2], URy: coords[3]}
}

// findFieldDict locates the field dictionary with the given partial name,
// searching terminal kids depth-first.
func (d *Document) findFieldDict(fieldsArray types.Array, name string) types.Dict {
	for _, fieldObj := range fieldsArray {
		fieldDict, err := d.ctx.DereferenceDict(fieldObj)
		if err != nil || fieldDict == nil {
			continue
		}

		if nameObj, found := fieldDict.Find("T"); found {
			if n, err := d.ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil && n == name {
				return fieldDict
			}
		}

		if kidsObj, found := fieldDict.Find("Kids"); found {
			if kids, err := d.ctx.DereferenceArray(kidsObj); err == nil {
				if match := d.findFieldDict(kids, name); match != nil {
					return match
				}
			}
		}
	}
	return nil
}

// dropKidAppearances removes appearance streams from all kid widgets so the
// regenerated value is shown everywhere the field appears.
func (d *Document) dropKidAppearances(fieldDict types.Dict) {
	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return
	}
	kids, err := d.ctx.DereferenceArray(kidsObj)
	if err != nil {
		return
	}
	for _, kidObj := range kids {
		if kidDict, err := d.ctx.DereferenceDict(kidObj); err == nil && kidDict != nil {
			delete(kidDict, "AP")
			if _, found := fieldDict.Find("AS"); found {
				kidDict["AS"] = fieldDict["AS"]
			}
		}
	}
}

// widgetPageMap maps widget annotation object numbers to zero-based page
// indices by scanning each page's Annots array.
func (d *Document) widgetPageMap() map[int]int {
	pages := make(map[int]int)
	for p := 0; p < d.ctx.PageCount; p++ {
		pageDict, err := d.pageDict(p)
		if err != nil {
			continue
		}
		annotsObj, found := pageDict.Find("Annots")
		if !found {
			continue
		}
		annots, err := d.ctx.DereferenceArray(annotsObj)
		if err != nil {
			continue
		}
		for _, annot := range annots {
			if nr := objectNumber(annot); nr > 0 {
				pages[nr] = p
			}
		}
	}
	return pages
}

// objectNumber returns the object number of an indirect reference, or 0 for
// direct objects.
func objectNumber(obj types.Object) int {
	if ir, ok := obj.(types.IndirectRef); ok {
		return ir.ObjectNumber.Value()
	}
	return 0
}

// escapeStringLiteral escapes the characters with special meaning inside a
// PDF string literal.
func escapeStringLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
