package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rflorenc/catalog-console/internal/models"
)

const testBase = "http://localhost:8080/api"

func newTestBuilder() *Builder {
	return NewBuilder(&models.Backend{BaseURL: testBase})
}

func TestBuild_ProductCreate(t *testing.T) {
	d, err := newTestBuilder().Build(models.KindProduct, models.OpCreate, models.FieldSet{
		"name": "Widget", "quantity": "3", "price": "2.99", "description": "",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, d.Method)
	assert.Equal(t, testBase+"/products", d.URL)
	assert.Equal(t, map[string]string{"Content-Type": "application/json"}, d.Headers)
	assert.JSONEq(t, `{"name":"Widget","quantity":3,"price":2.99}`, string(d.Body))
}

func TestBuild_CreateKeepsMandatoryFields(t *testing.T) {
	b := newTestBuilder()

	d, err := b.Build(models.KindProduct, models.OpCreate, models.FieldSet{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":""}`, string(d.Body))

	d, err = b.Build(models.KindImage, models.OpCreate, models.FieldSet{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"product_id":"","image_url":""}`, string(d.Body))
}

func TestBuild_UpdateOmitsEmptyFields(t *testing.T) {
	b := newTestBuilder()

	d, err := b.Build(models.KindProduct, models.OpUpdate, models.FieldSet{"product_id": "p1", "price": "10"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, d.Method)
	assert.Equal(t, testBase+"/products/p1", d.URL)
	assert.JSONEq(t, `{"price":10}`, string(d.Body))

	d, err = b.Build(models.KindSupplier, models.OpUpdate, models.FieldSet{"supplier_id": "s1", "contact_email": "a@b.io"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"contact_email":"a@b.io"}`, string(d.Body))
}

func TestBuild_CRUDMatrix(t *testing.T) {
	type want struct {
		method string
		item   bool
	}
	table := map[models.Operation]want{
		models.OpCreate: {http.MethodPost, false},
		models.OpRead:   {http.MethodGet, true},
		models.OpList:   {http.MethodGet, false},
		models.OpUpdate: {http.MethodPut, true},
		models.OpDelete: {http.MethodDelete, true},
	}
	b := newTestBuilder()

	for _, kind := range []models.ResourceKind{models.KindProduct, models.KindSupplier, models.KindCategory, models.KindImage} {
		rt, _ := models.LookupResource(kind)
		for op, w := range table {
			t.Run(fmt.Sprintf("%s/%s", kind, op), func(t *testing.T) {
				filled := models.FieldSet{rt.IDField: "id-1"}
				d, err := b.Build(kind, op, filled)
				require.NoError(t, err)
				assert.Equal(t, w.method, d.Method)
				if w.item {
					assert.Equal(t, testBase+rt.Collection+"/id-1", d.URL)
				} else {
					assert.Equal(t, testBase+rt.Collection, d.URL)
				}
				hasBody := op == models.OpCreate || op == models.OpUpdate
				assert.Equal(t, hasBody, d.HasBody())
				if !hasBody {
					assert.Empty(t, d.Headers)
				}

				_, err = b.Build(kind, op, models.FieldSet{})
				if w.item {
					var missing *MissingIdentifierError
					require.ErrorAs(t, err, &missing)
					assert.Equal(t, rt.IDField, missing.Field)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	}
}

func TestBuild_ProductReadMissingIdentifier(t *testing.T) {
	_, err := newTestBuilder().Build(models.KindProduct, models.OpRead, models.FieldSet{"product_id": ""})
	var missing *MissingIdentifierError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "product_id", missing.Field)
	assert.EqualError(t, err, "product_id is required")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, CodeMissingIdentifier, ErrorCode(err))
}

func TestBuild_ImageIdentifierIsImageID(t *testing.T) {
	_, err := newTestBuilder().Build(models.KindImage, models.OpDelete, models.FieldSet{"product_id": "p1"})
	var missing *MissingIdentifierError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "image_id", missing.Field)
}

func TestBuild_IdentifierIsEscaped(t *testing.T) {
	d, err := newTestBuilder().Build(models.KindCategory, models.OpRead, models.FieldSet{"category_id": "a b/c"})
	require.NoError(t, err)
	assert.Equal(t, testBase+"/categories/a%20b%2Fc", d.URL)
}

func TestBuild_Link(t *testing.T) {
	tests := []struct {
		name   string
		op     models.Operation
		fields models.FieldSet
		method string
		url    string
	}{
		{"supplier", models.OpLink, models.FieldSet{"product_id": "p1", "supplier_id": "s1", "category_id": ""},
			http.MethodPost, testBase + "/products/p1/suppliers/s1"},
		{"category", models.OpLink, models.FieldSet{"product_id": "p1", "supplier_id": "", "category_id": "c1"},
			http.MethodPost, testBase + "/products/p1/categories/c1"},
		{"unlink supplier", models.OpUnlink, models.FieldSet{"product_id": "p1", "supplier_id": "s1"},
			http.MethodDelete, testBase + "/products/p1/suppliers/s1"},
		{"unlink category", models.OpUnlink, models.FieldSet{"product_id": "p1", "category_id": "c1"},
			http.MethodDelete, testBase + "/products/p1/categories/c1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := newTestBuilder().Build(models.KindLink, tc.op, tc.fields)
			require.NoError(t, err)
			assert.Equal(t, tc.method, d.Method)
			assert.Equal(t, tc.url, d.URL)
			assert.False(t, d.HasBody())
			assert.Empty(t, d.Headers)
		})
	}
}

func TestBuild_LinkValidation(t *testing.T) {
	b := newTestBuilder()

	_, err := b.Build(models.KindLink, models.OpLink, models.FieldSet{"product_id": "p1", "supplier_id": "", "category_id": ""})
	var missing *MissingAssociationTargetError
	require.ErrorAs(t, err, &missing)
	assert.EqualError(t, err, "supplier_id or category_id is required to link/unlink")
	assert.ErrorIs(t, err, ErrMissingAssociationTarget)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = b.Build(models.KindLink, models.OpUnlink, models.FieldSet{"supplier_id": "s1"})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "product_id", missing.Field)

	_, err = b.Build(models.KindLink, models.OpLink, models.FieldSet{})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "product_id", missing.Field)

	_, err = b.Build(models.KindLink, models.OpLink, models.FieldSet{"product_id": "p1", "supplier_id": "s1", "category_id": "c1"})
	var ambiguous *AmbiguousAssociationTargetError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, CodeAmbiguousAssociationTarget, ErrorCode(err))
	assert.NotErrorIs(t, err, ErrMissingAssociationTarget)

	_, err = b.Build(models.KindProduct, models.OpRead, models.FieldSet{})
	assert.NotErrorIs(t, err, ErrMissingAssociationTarget)
}

// Body keys come from the registry: every writable field when all are
// filled, only the mandatory ones on an empty create, nothing on an empty update.
func TestBuild_BodyKeysFollowRegistry(t *testing.T) {
	b := newTestBuilder()
	bodyKeys := func(t *testing.T, d models.RequestDescriptor) []string {
		t.Helper()
		var body map[string]any
		require.NoError(t, json.Unmarshal(d.Body, &body))
		keys := make([]string, 0, len(body))
		for k := range body {
			keys = append(keys, k)
		}
		return keys
	}

	for _, rt := range models.ResourceTypes() {
		if rt.Kind == models.KindLink {
			continue
		}
		t.Run(string(rt.Kind), func(t *testing.T) {
			filled := models.FieldSet{rt.IDField: "id-1"}
			for _, f := range rt.Writable {
				filled[f] = "7"
			}
			d, err := b.Build(rt.Kind, models.OpCreate, filled)
			require.NoError(t, err)
			assert.ElementsMatch(t, rt.Writable, bodyKeys(t, d))

			d, err = b.Build(rt.Kind, models.OpCreate, models.FieldSet{})
			require.NoError(t, err)
			assert.ElementsMatch(t, rt.Mandatory, bodyKeys(t, d))

			d, err = b.Build(rt.Kind, models.OpUpdate, models.FieldSet{rt.IDField: "id-1"})
			require.NoError(t, err)
			assert.Empty(t, bodyKeys(t, d))
		})
	}
}

func TestBuild_UnsupportedOperation(t *testing.T) {
	b := newTestBuilder()

	for _, op := range []models.Operation{models.OpLink, models.OpUnlink} {
		_, err := b.Build(models.KindImage, op, models.FieldSet{"image_id": "i1"})
		var unsupported *UnsupportedOperationError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, models.KindImage, unsupported.Resource)
		assert.Equal(t, op, unsupported.Operation)
	}

	_, err := b.Build(models.KindLink, models.OpCreate, models.FieldSet{"product_id": "p1", "supplier_id": "s1"})
	assert.Equal(t, CodeUnsupportedOperation, ErrorCode(err))

	_, err = b.Build(models.KindProduct, models.Operation("patch"), models.FieldSet{"product_id": "p1"})
	assert.Equal(t, CodeUnsupportedOperation, ErrorCode(err))
}

func TestBuild_InvalidNumbers(t *testing.T) {
	b := newTestBuilder()
	tests := []struct {
		name   string
		fields models.FieldSet
		field  string
	}{
		{"quantity text", models.FieldSet{"name": "x", "quantity": "three"}, "quantity"},
		{"quantity fraction", models.FieldSet{"name": "x", "quantity": "1.5"}, "quantity"},
		{"price text", models.FieldSet{"name": "x", "price": "cheap"}, "price"},
		{"price NaN", models.FieldSet{"name": "x", "price": "NaN"}, "price"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.Build(models.KindProduct, models.OpCreate, tc.fields)
			var invalid *InvalidNumberError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
}

func TestBuild_UnknownResource(t *testing.T) {
	_, err := newTestBuilder().Build(models.ResourceKind("order"), models.OpList, nil)
	var unknown *UnknownResourceError
	require.ErrorAs(t, err, &unknown)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBuild_Idempotent(t *testing.T) {
	b := newTestBuilder()
	fields := models.FieldSet{"product_id": "p1", "name": "Widget", "price": "1.25"}

	first, err := b.Build(models.KindProduct, models.OpUpdate, fields)
	require.NoError(t, err)
	second, err := b.Build(models.KindProduct, models.OpUpdate, fields)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	first.Headers["X-Mutated"] = "1"
	third, err := b.Build(models.KindProduct, models.OpUpdate, fields)
	require.NoError(t, err)
	assert.NotContains(t, third.Headers, "X-Mutated")
}

func TestBuildNamed(t *testing.T) {
	b := newTestBuilder()

	d, err := b.BuildNamed("suppliers", "LIST", nil)
	require.NoError(t, err)
	assert.Equal(t, testBase+"/suppliers", d.URL)

	_, err = b.BuildNamed("orders", "list", nil)
	assert.Equal(t, CodeUnknownResource, ErrorCode(err))

	_, err = b.BuildNamed("product", "patch", nil)
	assert.Equal(t, CodeUnknownOperation, ErrorCode(err))
}

func TestErrorCode_NonBuilderError(t *testing.T) {
	assert.Equal(t, "", ErrorCode(errors.New("boom")))
	assert.Equal(t, "", ErrorCode(nil))
}
