package models

import (
	"slices"
	"strings"
)

// ResourceKind identifies a backend resource, or the link pseudo-resource
// that addresses product associations.
type ResourceKind string

const (
	KindProduct  ResourceKind = "product"
	KindSupplier ResourceKind = "supplier"
	KindCategory ResourceKind = "category"
	KindImage    ResourceKind = "image"
	KindLink     ResourceKind = "link"
)

// Operation is a verb the console can apply to a resource.
type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpList   Operation = "list"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpLink   Operation = "link"
	OpUnlink Operation = "unlink"
)

// Field names accepted from the form.
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldQuantity     = "quantity"
	FieldPrice        = "price"
	FieldContactEmail = "contact_email"
	FieldImageURL     = "image_url"
	FieldProductID    = "product_id"
	FieldSupplierID   = "supplier_id"
	FieldCategoryID   = "category_id"
	FieldImageID      = "image_id"
)

var (
	crudOperations = []Operation{OpCreate, OpRead, OpList, OpUpdate, OpDelete}
	linkOperations = []Operation{OpLink, OpUnlink}
)

// ResourceType describes an addressable resource (registry entry).
type ResourceType struct {
	Kind       ResourceKind `json:"kind"`
	Plural     string       `json:"plural"`
	Label      string       `json:"label"`
	Collection string       `json:"collection,omitempty"` // "/products"
	IDField    string       `json:"id_field,omitempty"`   // "product_id"
	Writable   []string     `json:"writable,omitempty"`   // body fields on create/update
	Mandatory  []string     `json:"mandatory,omitempty"`  // always sent on create
	Operations []Operation  `json:"operations"`
}

var resourceTypes = []ResourceType{
	{Kind: KindProduct, Plural: "products", Label: "Products", Collection: "/products", IDField: FieldProductID,
		Writable:  []string{FieldName, FieldDescription, FieldQuantity, FieldPrice},
		Mandatory: []string{FieldName}},
	{Kind: KindSupplier, Plural: "suppliers", Label: "Suppliers", Collection: "/suppliers", IDField: FieldSupplierID,
		Writable:  []string{FieldName, FieldContactEmail},
		Mandatory: []string{FieldName}},
	{Kind: KindCategory, Plural: "categories", Label: "Categories", Collection: "/categories", IDField: FieldCategoryID,
		Writable:  []string{FieldName, FieldDescription},
		Mandatory: []string{FieldName}},
	{Kind: KindImage, Plural: "images", Label: "Images", Collection: "/images", IDField: FieldImageID,
		Writable:  []string{FieldProductID, FieldImageURL},
		Mandatory: []string{FieldProductID, FieldImageURL}},
	{Kind: KindLink, Plural: "links", Label: "Link / Unlink"},
}

func init() {
	for i := range resourceTypes {
		resourceTypes[i].Operations = OperationsFor(resourceTypes[i].Kind)
	}
}

// OperationsFor returns the operations valid for a resource kind, in display order.
func OperationsFor(kind ResourceKind) []Operation {
	src := crudOperations
	if kind == KindLink {
		src = linkOperations
	}
	ops := make([]Operation, len(src))
	copy(ops, src)
	return ops
}

// ResourceTypes returns a copy of every registered resource type.
func ResourceTypes() []ResourceType {
	out := make([]ResourceType, len(resourceTypes))
	for i, rt := range resourceTypes {
		out[i] = rt.clone()
	}
	return out
}

// LookupResource returns a copy of the registry entry for kind.
func LookupResource(kind ResourceKind) (ResourceType, bool) {
	for _, rt := range resourceTypes {
		if rt.Kind == kind {
			return rt.clone(), true
		}
	}
	return ResourceType{}, false
}

func (rt ResourceType) clone() ResourceType {
	rt.Writable = slices.Clone(rt.Writable)
	rt.Mandatory = slices.Clone(rt.Mandatory)
	rt.Operations = slices.Clone(rt.Operations)
	return rt
}

// IsMandatory reports whether field is sent on create even when empty.
func (rt ResourceType) IsMandatory(field string) bool {
	return slices.Contains(rt.Mandatory, field)
}

// Supports reports whether op is valid for this resource.
func (rt ResourceType) Supports(op Operation) bool {
	return slices.Contains(rt.Operations, op)
}

// FormFields returns the fields a form should render for op.
func (rt ResourceType) FormFields(op Operation) []string {
	if rt.Kind == KindLink {
		return []string{FieldProductID, FieldSupplierID, FieldCategoryID}
	}
	var fields []string
	if op == OpCreate || op == OpUpdate {
		fields = append(fields, rt.Writable...)
	}
	if op == OpRead || op == OpUpdate || op == OpDelete {
		fields = append(fields, rt.IDField)
	}
	return fields
}

// ParseResourceKind accepts both singular ("category") and plural ("categories") names.
func ParseResourceKind(s string) (ResourceKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, rt := range resourceTypes {
		if s == string(rt.Kind) || s == rt.Plural {
			return rt.Kind, true
		}
	}
	return "", false
}

// ParseOperation returns the Operation named by s.
func ParseOperation(s string) (Operation, bool) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	for _, set := range [][]Operation{crudOperations, linkOperations} {
		for _, o := range set {
			if o == op {
				return op, true
			}
		}
	}
	return "", false
}
