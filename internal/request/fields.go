package request

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rflorenc/catalog-console/internal/models"
)

var validate = newValidator()

// newValidator reports field errors under their form names ("supplier_id").
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		if name := sf.Tag.Get("field"); name != "" {
			return name
		}
		return sf.Name
	})
	return v
}

// Fields is the typed view of a FieldSet for one resource kind.
type Fields interface {
	Kind() models.ResourceKind
	// Identifier is the value of the resource's own id field.
	Identifier() string
	// Payload returns the JSON body for create/update, or nil when none
	// applies. keep reports whether an empty field is still sent.
	Payload(keep func(field string) bool) (any, error)
}

// ProductFields holds the form values for a product.
type ProductFields struct {
	ID          string `field:"product_id"`
	Name        string `field:"name"`
	Description string `field:"description"`
	Quantity    string `field:"quantity"`
	Price       string `field:"price"`
}

type productPayload struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Quantity    *int64   `json:"quantity,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

func (f ProductFields) Kind() models.ResourceKind { return models.KindProduct }
func (f ProductFields) Identifier() string        { return f.ID }

func (f ProductFields) Payload(keep func(string) bool) (any, error) {
	p := productPayload{
		Name:        text(f.Name, keep(models.FieldName)),
		Description: text(f.Description, keep(models.FieldDescription)),
	}
	var err error
	if p.Quantity, err = parseInt(models.FieldQuantity, f.Quantity); err != nil {
		return nil, err
	}
	if p.Price, err = parseFloat(models.FieldPrice, f.Price); err != nil {
		return nil, err
	}
	return p, nil
}

// SupplierFields holds the form values for a supplier.
type SupplierFields struct {
	ID           string `field:"supplier_id"`
	Name         string `field:"name"`
	ContactEmail string `field:"contact_email"`
}

type supplierPayload struct {
	Name         *string `json:"name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
}

func (f SupplierFields) Kind() models.ResourceKind { return models.KindSupplier }
func (f SupplierFields) Identifier() string        { return f.ID }

func (f SupplierFields) Payload(keep func(string) bool) (any, error) {
	return supplierPayload{
		Name:         text(f.Name, keep(models.FieldName)),
		ContactEmail: text(f.ContactEmail, keep(models.FieldContactEmail)),
	}, nil
}

// CategoryFields holds the form values for a category.
type CategoryFields struct {
	ID          string `field:"category_id"`
	Name        string `field:"name"`
	Description string `field:"description"`
}

type categoryPayload struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (f CategoryFields) Kind() models.ResourceKind { return models.KindCategory }
func (f CategoryFields) Identifier() string        { return f.ID }

func (f CategoryFields) Payload(keep func(string) bool) (any, error) {
	return categoryPayload{
		Name:        text(f.Name, keep(models.FieldName)),
		Description: text(f.Description, keep(models.FieldDescription)),
	}, nil
}

// ImageFields holds the form values for an image.
type ImageFields struct {
	ID        string `field:"image_id"`
	ProductID string `field:"product_id"`
	ImageURL  string `field:"image_url"`
}

type imagePayload struct {
	ProductID *string `json:"product_id,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
}

func (f ImageFields) Kind() models.ResourceKind { return models.KindImage }
func (f ImageFields) Identifier() string        { return f.ID }

func (f ImageFields) Payload(keep func(string) bool) (any, error) {
	return imagePayload{
		ProductID: text(f.ProductID, keep(models.FieldProductID)),
		ImageURL:  text(f.ImageURL, keep(models.FieldImageURL)),
	}, nil
}

// LinkFields holds the association between a product and exactly one
// supplier or category.
type LinkFields struct {
	ProductID  string `field:"product_id" validate:"required"`
	SupplierID string `field:"supplier_id" validate:"required_without=CategoryID,excluded_with=CategoryID"`
	CategoryID string `field:"category_id" validate:"required_without=SupplierID"`
}

func (f LinkFields) Kind() models.ResourceKind              { return models.KindLink }
func (f LinkFields) Identifier() string                     { return f.ProductID }
func (f LinkFields) Payload(func(string) bool) (any, error) { return nil, nil }

// check maps validator failures onto association errors. The product is
// reported before the targets.
func (f LinkFields) check() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating link fields: %w", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "excluded_with":
		return &AmbiguousAssociationTargetError{}
	case "required_without":
		return &MissingAssociationTargetError{Field: models.FieldSupplierID + " or " + models.FieldCategoryID}
	default:
		return &MissingAssociationTargetError{Field: fe.Field()}
	}
}

// decoders selects the typed variant for each resource kind.
var decoders = map[models.ResourceKind]func(models.FieldSet) Fields{
	models.KindProduct: func(fs models.FieldSet) Fields {
		return ProductFields{
			ID:          fs.Get(models.FieldProductID),
			Name:        fs.Get(models.FieldName),
			Description: fs.Get(models.FieldDescription),
			Quantity:    fs.Get(models.FieldQuantity),
			Price:       fs.Get(models.FieldPrice),
		}
	},
	models.KindSupplier: func(fs models.FieldSet) Fields {
		return SupplierFields{
			ID:           fs.Get(models.FieldSupplierID),
			Name:         fs.Get(models.FieldName),
			ContactEmail: fs.Get(models.FieldContactEmail),
		}
	},
	models.KindCategory: func(fs models.FieldSet) Fields {
		return CategoryFields{
			ID:          fs.Get(models.FieldCategoryID),
			Name:        fs.Get(models.FieldName),
			Description: fs.Get(models.FieldDescription),
		}
	},
	models.KindImage: func(fs models.FieldSet) Fields {
		return ImageFields{
			ID:        fs.Get(models.FieldImageID),
			ProductID: fs.Get(models.FieldProductID),
			ImageURL:  fs.Get(models.FieldImageURL),
		}
	},
	models.KindLink: func(fs models.FieldSet) Fields {
		return LinkFields{
			ProductID:  fs.Get(models.FieldProductID),
			SupplierID: fs.Get(models.FieldSupplierID),
			CategoryID: fs.Get(models.FieldCategoryID),
		}
	},
}

// text returns nil for an empty value so it drops out of the body, unless
// keep is set.
func text(v string, keep bool) *string {
	if v == "" && !keep {
		return nil
	}
	return &v
}

func parseInt(field, v string) (*int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, &InvalidNumberError{Field: field, Value: v}
	}
	return &n, nil
}

func parseFloat(field, v string) (*float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, &InvalidNumberError{Field: field, Value: v}
	}
	return &n, nil
}
