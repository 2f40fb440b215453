package registration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/memoryschool/portal/internal/models"
	"github.com/memoryschool/portal/internal/services"
	"github.com/memoryschool/portal/internal/wizard"
)

// Stage names the orchestrator's states in execution order. No stage begins
// until the previous one's durable write is acknowledged.
type Stage string

const (
	StageAccount    Stage = "account"
	StageClient     Stage = "client"
	StageDependents Stage = "dependents"
	StageOrder      Stage = "order"
	StageItems      Stage = "line_items"
	StageNotify     Stage = "notify"
)

var ErrMissingIdentifier = errors.New("account created but no user id returned")

// StageError is the terminal failure state: which stage aborted, and why.
// Everything after the failed stage is never attempted.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// AccountCreator is the privileged identity boundary (see accounts).
type AccountCreator interface {
	Create(ctx context.Context, email, password, firstName, lastName string) (string, error)
}

// Notifier is the outbound message boundary (see notify).
type Notifier interface {
	Send(ctx context.Context, name, phone, dashboardLink, messageType string) error
}

// PhotoStore is the asset-storage boundary for dependent photos.
type PhotoStore interface {
	Save(clientID uint, filename string, data []byte) (string, error)
}

// Result reports a completed provisioning run. Warnings carry the non-fatal
// conditions (photo uploads, notification delivery) that did not stop it.
type Result struct {
	UserID        string   `json:"user_id"`
	ClientID      uint     `json:"client_id"`
	OrderID       uint     `json:"order_id"`
	OrderCode     string   `json:"order_code"`
	Total         float64  `json:"total"`
	DashboardLink string   `json:"dashboard_link"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Orchestrator runs the ordered multi-resource creation sequence:
// account -> client -> dependents (+ photo uploads) -> order -> line items
// -> notification. All collaborators are explicit; there is no ambient
// session state.
type Orchestrator struct {
	DB       *gorm.DB
	Accounts AccountCreator
	Notifier Notifier
	Photos   PhotoStore
	BaseURL  string

	// per boundary call; a hung call must not hang the submission forever
	CallTimeout time.Duration

	Logf func(format string, args ...any)
}

func (o *Orchestrator) timeout() time.Duration {
	if o.CallTimeout > 0 {
		return o.CallTimeout
	}
	return 10 * time.Second
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Provision consumes a finished draft and creates the durable records. On a
// *StageError nothing after the failed stage exists; earlier writes are NOT
// rolled back (see the account-reuse note on accounts.Service.Create).
func (o *Orchestrator) Provision(ctx context.Context, d *wizard.Draft) (*Result, error) {
	res := &Result{DashboardLink: o.BaseURL + "/client/dashboard"}

	// account
	firstName, lastName := splitName(d.Guardian.FullName)
	userID, err := o.createAccount(ctx, d.Guardian.Email, d.Guardian.Password, firstName, lastName)
	if err != nil {
		return nil, &StageError{StageAccount, err}
	}
	if userID == "" {
		return nil, &StageError{StageAccount, ErrMissingIdentifier}
	}
	res.UserID = userID
	o.logf("registration: account ready, user %s", userID)

	// client record
	client := models.Client{
		UserID:     userID,
		CPF:        d.DocumentID,
		ParentName: d.Guardian.FullName,
		Phone:      d.Guardian.Phone,
		Email:      d.Guardian.Email,
	}
	if err := o.DB.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, &StageError{StageClient, err}
	}
	res.ClientID = client.ID
	o.logf("registration: client %d created", client.ID)

	// dependents: photo uploads first (concurrent, independent), then one
	// batch insert that waits for every upload attempt to resolve
	photoURLs := o.uploadPhotos(client.ID, d.Dependents, res)

	rows := make([]models.Dependent, 0, len(d.Dependents))
	for i, dep := range d.Dependents {
		birth, err := services.ParseDateBR(dep.BirthDate)
		if err != nil {
			return nil, &StageError{StageDependents, err}
		}
		rows = append(rows, models.Dependent{
			ClientID:        client.ID,
			Name:            dep.Name,
			BirthDate:       birth,
			SchoolCourse:    fmt.Sprintf("%s - %s (%s)", d.Catalog.ContractName, dep.ClassLabel, dep.Shift),
			ProfilePhotoURL: photoURLs[i],
		})
	}
	if err := o.DB.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, &StageError{StageDependents, err}
	}
	o.logf("registration: %d dependent(s) created", len(rows))

	// order
	total, items, err := services.BuildOrderItems(d.Catalog, d.Selection.PlanID, d.Selection.ProductIDs)
	if err != nil {
		return nil, &StageError{StageOrder, err}
	}
	order := models.Order{
		ClientID:    client.ID,
		ContractID:  d.Catalog.ContractID,
		TotalAmount: total,
		Status:      "pending",
		Code:        services.GenerateOrderCode(o.DB),
	}
	if order.Code == "" {
		return nil, &StageError{StageOrder, errors.New("failed to generate order code")}
	}
	if err := o.DB.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, &StageError{StageOrder, err}
	}
	res.OrderID = order.ID
	res.OrderCode = order.Code
	res.Total = total
	o.logf("registration: order %s created, total %.2f", order.Code, total)

	// line items
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := o.DB.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, &StageError{StageItems, err}
	}

	// notification: best effort, never fails the registration
	nctx, cancel := context.WithTimeout(ctx, o.timeout())
	defer cancel()
	phone := services.DigitsOnly(d.Guardian.Phone)
	if err := o.Notifier.Send(nctx, firstName, phone, res.DashboardLink, "welcome"); err != nil {
		warn := fmt.Sprintf("registration succeeded, welcome message failed: %v", err)
		res.Warnings = append(res.Warnings, warn)
		o.logf("registration: %s", warn)
	}

	return res, nil
}

func (o *Orchestrator) createAccount(ctx context.Context, email, password, firstName, lastName string) (string, error) {
	actx, cancel := context.WithTimeout(ctx, o.timeout())
	defer cancel()
	userID, err := o.Accounts.Create(actx, email, password, firstName, lastName)
	if errors.Is(err, context.DeadlineExceeded) {
		return "", errors.New("timeout")
	}
	return userID, err
}

// uploadPhotos attempts every attached photo concurrently. A failed upload
// is a warning, not a stage failure: the dependent row is still created
// with a nil photo URL.
func (o *Orchestrator) uploadPhotos(clientID uint, deps []wizard.Dependent, res *Result) []*string {
	urls := make([]*string, len(deps))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := range deps {
		if len(deps[i].Photo) == 0 {
			continue
		}
		wg.Add(1)
		go func(i int, dep wizard.Dependent) {
			defer wg.Done()
			url, err := o.Photos.Save(clientID, dep.PhotoName, dep.Photo)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				warn := fmt.Sprintf("photo upload failed for %s: %v", dep.Name, err)
				res.Warnings = append(res.Warnings, warn)
				o.logf("registration: %s", warn)
				return
			}
			urls[i] = &url
		}(i, deps[i])
	}
	wg.Wait()
	return urls
}

// splitName follows the original form's convention: first token is the first
// name, the remainder is the last name. A single-token name leaves the last
// name empty.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
