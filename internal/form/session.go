package form

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
)

// Status is the submit lifecycle of one form session
type Status string

const (
	StatusDraft        Status = "draft"
	StatusSubmitted    Status = "submitted"
	StatusSubmitFailed Status = "submit_failed"
)

var (
	ErrInvalidStep    = errors.New("form step out of range")
	ErrStepValidation = errors.New("step has validation errors")
	ErrNotOnFinalStep = errors.New("submit is only allowed from the final step")
)

// ProductPayload is the normalized product draft assembled on submit
type ProductPayload struct {
	ProductNumber           string                 `json:"productNumber"`
	SKU                     string                 `json:"sku"`
	ProductName             string                 `json:"productName"`
	Brand                   string                 `json:"brand"`
	Warranty                string                 `json:"warranty"`
	CategoryID              uint                   `json:"categoryID"`
	CategoryName            string                 `json:"categoryName"`
	Price                   float64                `json:"price"`
	DiscountPercentage      float64                `json:"discountPercentage"`
	PriceAfterDiscount      *float64               `json:"priceAfterDiscount,omitempty"`
	StockQuantity           int                    `json:"stockQuantity"`
	InventoryAlertThreshold int                    `json:"inventoryAlertThreshold"`
	Description             string                 `json:"description"`
	Tags                    []string               `json:"tags"`
	MediaURL                []string               `json:"mediaURL"`
	IsFeatured              bool                   `json:"isFeatured"`
	Attributes              map[string]interface{} `json:"attributes"`
}

// SubmitSink persists a completed product draft
type SubmitSink interface {
	SubmitProduct(ctx context.Context, payload *ProductPayload) (uint, error)
}

// View is the serializable snapshot of a session that the dashboard
// renders from.
type View struct {
	SessionID          string                 `json:"sessionId"`
	Step               int                    `json:"step"`
	Status             Status                 `json:"status"`
	Values             map[string]interface{} `json:"values"`
	FieldErrors        FieldErrors            `json:"fieldErrors,omitempty"`
	CategoryID         uint                   `json:"categoryId,omitempty"`
	CategoryName       string                 `json:"categoryName,omitempty"`
	SchemaLoading      bool                   `json:"schemaLoading"`
	SchemaError        string                 `json:"schemaError,omitempty"`
	Fields             []FieldControl         `json:"fields"`
	PriceAfterDiscount string                 `json:"priceAfterDiscount"`
	SubmitError        string                 `json:"submitError,omitempty"`
	ProductID          uint                   `json:"productId,omitempty"`
}

// Session is one in-progress product form. All mutation goes through its
// methods; the mutex keeps state updates atomic so a category change can
// never interleave with validation against stale rules.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	step        int
	status      Status
	values      map[string]interface{}
	fieldErrors FieldErrors
	schema      *CategorySchema
	rules       *RuleSet

	// schemaGen counts category selections. A resolve result is applied
	// only when its generation still matches, so a stale response for an
	// abandoned selection is discarded.
	schemaGen     uint64
	schemaLoading bool
	schemaErr     error

	source SchemaSource
	media  *MediaManager

	submitErr error
	productID uint
}

// NewSession creates a fresh draft session at step 1 with default values
func NewSession(id string, source SchemaSource, media *MediaManager) *Session {
	return &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		step:        FirstStep,
		status:      StatusDraft,
		values:      DefaultValues(),
		fieldErrors: make(FieldErrors),
		rules:       Compile(nil),
		source:      source,
		media:       media,
	}
}

// Media returns the session's staged media manager
func (s *Session) Media() *MediaManager {
	return s.media
}

// SetFields merges field updates into the draft. Errors for the touched
// fields are cleared; they reappear on the next validation pass if still
// invalid.
func (s *Session) SetFields(updates map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// a successful submit left a fresh draft; first edit starts it
	if s.status == StatusSubmitted {
		s.status = StatusDraft
	}
	for field, value := range updates {
		s.values[field] = value
		delete(s.fieldErrors, field)
	}
}

// SelectCategory replaces the category selection. The previous schema,
// ruleset and attribute values are dropped atomically; values for fields
// not present in the new schema do not survive the switch. Resolution
// happens outside the lock; a response that arrives after a newer
// selection is discarded.
func (s *Session) SelectCategory(ctx context.Context, categoryID uint, categoryName string) error {
	s.mu.Lock()
	if s.status == StatusSubmitted {
		s.status = StatusDraft
	}
	s.schemaGen++
	gen := s.schemaGen
	s.schemaLoading = true
	s.schemaErr = nil
	s.dropAttributeValuesLocked()
	s.schema = nil
	s.rules = Compile(nil)
	s.values[FieldCategory] = categoryID
	s.values["categoryName"] = categoryName
	delete(s.fieldErrors, FieldCategory)
	source := s.source
	s.mu.Unlock()

	schema, err := source.Resolve(ctx, categoryID, categoryName)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.schemaGen {
		logger.Debug("Discarding stale schema response", map[string]interface{}{
			"session":  s.ID,
			"category": categoryName,
		})
		return nil
	}
	s.schemaLoading = false
	if err != nil {
		s.schemaErr = err
		logger.Warn("Category schema unavailable, attribute step left empty", map[string]interface{}{
			"session":  s.ID,
			"category": categoryName,
			"error":    err.Error(),
		})
		return err
	}
	s.schema = schema
	s.rules = Compile(schema)
	return nil
}

// dropAttributeValuesLocked removes values keyed by the outgoing
// schema's attribute names. Caller holds s.mu.
func (s *Session) dropAttributeValuesLocked() {
	if s.schema == nil {
		return
	}
	for _, name := range s.schema.FieldNames() {
		if IsBaseField(name) {
			continue
		}
		delete(s.values, name)
		delete(s.fieldErrors, name)
	}
}

// Next validates the current step and advances on success. On failure
// the step does not change and the field errors are recorded.
func (s *Session) Next() (int, FieldErrors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step >= LastStep {
		return s.step, nil, ErrInvalidStep
	}

	normalized, errs := s.rules.ValidateStep(s.step, s.values)
	if len(errs) > 0 {
		for field, msg := range errs {
			s.fieldErrors[field] = msg
		}
		return s.step, errs, ErrStepValidation
	}

	for field, value := range normalized {
		s.values[field] = value
		delete(s.fieldErrors, field)
	}
	s.step++
	return s.step, nil, nil
}

// Previous moves one step back without re-validation
func (s *Session) Previous() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > FirstStep {
		s.step--
	}
	return s.step
}

// Reset returns the session to step 1 with default values, no category
// selection and no staged media. Allowed from any state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.step = FirstStep
	s.status = StatusDraft
	s.values = DefaultValues()
	s.fieldErrors = make(FieldErrors)
	s.schema = nil
	s.rules = Compile(nil)
	s.schemaGen++
	s.schemaLoading = false
	s.schemaErr = nil
	s.submitErr = nil
	if s.media != nil {
		s.media.Close()
	}
}

// Submit runs full-form validation and hands the assembled payload to
// the sink. Success resets the session to a fresh draft; failure keeps
// every value so the user can correct and resubmit.
func (s *Session) Submit(ctx context.Context, sink SubmitSink) (uint, FieldErrors, error) {
	s.mu.Lock()
	if s.step != LastStep {
		s.mu.Unlock()
		return 0, nil, ErrNotOnFinalStep
	}

	normalized, errs := s.rules.ValidateAll(s.values)
	if len(errs) > 0 {
		for field, msg := range errs {
			s.fieldErrors[field] = msg
		}
		s.mu.Unlock()
		return 0, errs, ErrStepValidation
	}

	payload := s.buildPayloadLocked(normalized)
	s.mu.Unlock()

	productID, err := sink.SubmitProduct(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusSubmitFailed
		s.submitErr = err
		return 0, nil, err
	}

	s.productID = productID
	s.resetLocked()
	s.status = StatusSubmitted
	return productID, nil, nil
}

// buildPayloadLocked assembles the submit payload from normalized
// values. Attribute entries come exclusively from the current schema, so
// leftovers from an earlier category can never reach the backend.
// Caller holds s.mu.
func (s *Session) buildPayloadLocked(values map[string]interface{}) *ProductPayload {
	payload := &ProductPayload{
		ProductNumber: toString(values[FieldProductNumber]),
		SKU:           toString(values[FieldSKU]),
		ProductName:   toString(values[FieldProductName]),
		Brand:         toString(values[FieldBrand]),
		Warranty:      toString(values[FieldWarranty]),
		CategoryName:  toString(s.values["categoryName"]),
		Description:   toString(values[FieldDescription]),
		Attributes:    make(map[string]interface{}),
	}
	if id, ok := values[FieldCategory].(uint); ok {
		payload.CategoryID = id
	}
	if price, ok := toNumber(values[FieldPrice]); ok {
		payload.Price = price
	}
	if discount, ok := toNumber(values[FieldDiscount]); ok {
		payload.DiscountPercentage = discount
	}
	if derived, ok := PriceAfterDiscount(values[FieldPrice], values[FieldDiscount]); ok {
		if parsed, err := strconv.ParseFloat(derived, 64); err == nil {
			payload.PriceAfterDiscount = &parsed
		}
	}
	if stock, ok := toInt(values[FieldStock]); ok {
		payload.StockQuantity = stock
	}
	if threshold, ok := toInt(values[FieldAlertThreshold]); ok {
		payload.InventoryAlertThreshold = threshold
	}
	if tags, ok := toStringSlice(values[FieldTags]); ok {
		payload.Tags = tags
	}
	if urls, ok := toStringSlice(values[FieldMediaURL]); ok {
		payload.MediaURL = urls
	}
	if featured, ok := values[FieldIsFeatured].(bool); ok {
		payload.IsFeatured = featured
	}

	if s.schema != nil {
		for _, name := range s.schema.FieldNames() {
			if value, ok := values[name]; ok {
				payload.Attributes[name] = value
			}
		}
	}
	return payload
}

// Snapshot returns the current render view of the session
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{
		SessionID:     s.ID,
		Step:          s.step,
		Status:        s.status,
		Values:        copyValues(s.values),
		SchemaLoading: s.schemaLoading,
		Fields:        RenderSchema(s.schema, s.values, s.fieldErrors),
	}
	if len(s.fieldErrors) > 0 {
		view.FieldErrors = make(FieldErrors, len(s.fieldErrors))
		for k, v := range s.fieldErrors {
			view.FieldErrors[k] = v
		}
	}
	if s.schema != nil {
		view.CategoryID = s.schema.CategoryID
		view.CategoryName = s.schema.CategoryName
	} else if id, ok := toNumber(s.values[FieldCategory]); ok && id > 0 {
		view.CategoryID = uint(id)
		view.CategoryName = toString(s.values["categoryName"])
	}
	if s.schemaErr != nil {
		view.SchemaError = s.schemaErr.Error()
	}
	if derived, ok := PriceAfterDiscount(s.values[FieldPrice], s.values[FieldDiscount]); ok {
		view.PriceAfterDiscount = derived
	}
	if s.submitErr != nil {
		view.SubmitError = s.submitErr.Error()
	}
	view.ProductID = s.productID
	return view
}

// Step returns the current step number
func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Values returns a copy of the current draft values
func (s *Session) Values() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyValues(s.values)
}

// Close releases every resource the session holds
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.media != nil {
		s.media.Close()
	}
}

func copyValues(values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
