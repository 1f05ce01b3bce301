package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/mes-service/internal/domain"
)

// MemoryStore keeps every table in process memory. It backs the service when
// no Postgres DSN is configured and is used by tests. A single RWMutex guards
// all tables so Transition is atomic with its audit insert.
type MemoryStore struct {
	mu             sync.RWMutex
	employees      map[string]*domain.Employee
	workOrders     map[string]*domain.WorkOrder
	productionLogs []domain.ProductionLog
	activityLogs   []domain.ActivityLog
	loginEnabled   bool
	scanClaims     map[string]time.Time
	now            func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore(badgeLoginEnabled bool) *MemoryStore {
	return &MemoryStore{
		employees:    make(map[string]*domain.Employee),
		workOrders:   make(map[string]*domain.WorkOrder),
		loginEnabled: badgeLoginEnabled,
		scanClaims:   make(map[string]time.Time),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Employees returns the employee table view.
func (m *MemoryStore) Employees() EmployeeRepository { return memoryEmployees{m} }

// WorkOrders returns the work order table view.
func (m *MemoryStore) WorkOrders() WorkOrderRepository { return memoryWorkOrders{m} }

// ProductionLogs returns the audit trail view.
func (m *MemoryStore) ProductionLogs() ProductionLogRepository { return memoryProductionLogs{m} }

// ActivityLogs returns the operation log view.
func (m *MemoryStore) ActivityLogs() ActivityLogRepository { return memoryActivityLogs{m} }

// Settings returns the badge settings view.
func (m *MemoryStore) Settings() SettingsRepository { return memorySettings{m} }

type memoryEmployees struct{ m *MemoryStore }

func (r memoryEmployees) Create(_ context.Context, employee *domain.Employee) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.employees {
		if employee.BadgeUID != nil && existing.BadgeUID != nil &&
			*existing.BadgeUID == *employee.BadgeUID && existing.EmployeeCode != employee.EmployeeCode {
			return ErrDuplicateBadge
		}
	}
	now := r.m.now()
	for id, existing := range r.m.employees {
		if existing.EmployeeCode == employee.EmployeeCode {
			employee.ID = id
			employee.CreatedAt = existing.CreatedAt
		}
	}
	if employee.ID == "" {
		employee.ID = uuid.NewString()
		employee.CreatedAt = now
	}
	employee.UpdatedAt = now
	stored := *employee
	r.m.employees[employee.ID] = &stored
	return nil
}

func (r memoryEmployees) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	return r.find(func(e *domain.Employee) bool { return e.ID == id })
}

func (r memoryEmployees) GetByCode(_ context.Context, code string) (*domain.Employee, error) {
	return r.find(func(e *domain.Employee) bool { return e.EmployeeCode == code })
}

func (r memoryEmployees) GetByBadgeUID(_ context.Context, uid string) (*domain.Employee, error) {
	return r.find(func(e *domain.Employee) bool { return e.BadgeUID != nil && *e.BadgeUID == uid })
}

func (r memoryEmployees) find(match func(*domain.Employee) bool) (*domain.Employee, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, employee := range r.m.employees {
		if match(employee) {
			found := *employee
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryEmployees) List(_ context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	result := []domain.Employee{}
	for _, employee := range r.m.employees {
		if filter.Role != nil && employee.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && employee.Active != *filter.Active {
			continue
		}
		result = append(result, *employee)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeCode < result[j].EmployeeCode })
	return page(result, filter.Limit, filter.Offset, 50), nil
}

type memoryWorkOrders struct{ m *MemoryStore }

func (r memoryWorkOrders) Create(_ context.Context, workOrder *domain.WorkOrder) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	now := r.m.now()
	for id, existing := range r.m.workOrders {
		if existing.Number == workOrder.Number {
			workOrder.ID = id
			workOrder.CreatedAt = existing.CreatedAt
		}
	}
	if workOrder.ID == "" {
		workOrder.ID = uuid.NewString()
		workOrder.CreatedAt = now
	}
	workOrder.UpdatedAt = now
	stored := *workOrder
	r.m.workOrders[workOrder.ID] = &stored
	return nil
}

func (r memoryWorkOrders) GetByID(_ context.Context, id string) (*domain.WorkOrder, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	workOrder, ok := r.m.workOrders[id]
	if !ok {
		return nil, ErrNotFound
	}
	found := *workOrder
	return &found, nil
}

func (r memoryWorkOrders) GetByNumber(_ context.Context, number string) (*domain.WorkOrder, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, workOrder := range r.m.workOrders {
		if workOrder.Number == number {
			found := *workOrder
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryWorkOrders) List(_ context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	result := []domain.WorkOrder{}
	for _, workOrder := range r.m.workOrders {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, workOrder.Status) {
			continue
		}
		if filter.ProductionLineID != nil && (workOrder.ProductionLineID == nil || *workOrder.ProductionLineID != *filter.ProductionLineID) {
			continue
		}
		result = append(result, *workOrder)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Priority != result[j].Priority {
			return result[i].Priority > result[j].Priority
		}
		return result[i].Number < result[j].Number
	})
	return page(result, filter.Limit, filter.Offset, 50), nil
}

func (r memoryWorkOrders) Transition(_ context.Context, input TransitionInput) (*domain.WorkOrder, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	workOrder, ok := r.m.workOrders[input.WorkOrderID]
	if !ok {
		return nil, ErrNotFound
	}
	if workOrder.Status != input.From {
		return nil, ErrStatusConflict
	}
	now := r.m.now()
	workOrder.Status = input.To
	if input.ActualStart != nil {
		workOrder.ActualStart = input.ActualStart
	}
	if input.ActualEnd != nil {
		workOrder.ActualEnd = input.ActualEnd
	}
	workOrder.UpdatedAt = now
	if input.Log != nil {
		input.Log.ID = uuid.NewString()
		input.Log.WorkOrderID = workOrder.ID
		if input.Log.Timestamp.IsZero() {
			input.Log.Timestamp = now
		}
		r.m.productionLogs = append(r.m.productionLogs, *input.Log)
	}
	updated := *workOrder
	return &updated, nil
}

type memoryProductionLogs struct{ m *MemoryStore }

func (r memoryProductionLogs) ListByWorkOrder(_ context.Context, workOrderID string, limit int) ([]domain.ProductionLog, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	result := []domain.ProductionLog{}
	for i := len(r.m.productionLogs) - 1; i >= 0; i-- {
		if r.m.productionLogs[i].WorkOrderID == workOrderID {
			result = append(result, r.m.productionLogs[i])
		}
	}
	return page(result, limit, 0, 100), nil
}

type memoryActivityLogs struct{ m *MemoryStore }

func (r memoryActivityLogs) Create(_ context.Context, entry *domain.ActivityLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.Timestamp = r.m.now()
	r.m.activityLogs = append(r.m.activityLogs, *entry)
	return nil
}

func (r memoryActivityLogs) ListRecent(_ context.Context, limit int) ([]domain.ActivityLog, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	result := []domain.ActivityLog{}
	for i := len(r.m.activityLogs) - 1; i >= 0; i-- {
		result = append(result, r.m.activityLogs[i])
	}
	return page(result, limit, 0, 20), nil
}

type memorySettings struct{ m *MemoryStore }

func (r memorySettings) BadgeLoginEnabled(_ context.Context) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return r.m.loginEnabled, nil
}

func (r memorySettings) SetBadgeLoginEnabled(_ context.Context, enabled bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.loginEnabled = enabled
	return nil
}

func (r memorySettings) ClaimScan(_ context.Context, uid string, window time.Duration) (bool, error) {
	if window <= 0 {
		return true, nil
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	now := r.m.now()
	if last, ok := r.m.scanClaims[uid]; ok && now.Sub(last) < window {
		return false, nil
	}
	r.m.scanClaims[uid] = now
	return true, nil
}

func containsStatus(statuses []domain.WorkOrderStatus, status domain.WorkOrderStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit, offset, fallback int) []T {
	limit = limitOrDefault(limit, fallback)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
