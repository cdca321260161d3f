package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/task"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/workorder"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/assignment"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/attachment"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/comment"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/personnel"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/timeline"
	"github.com/aristech/fieldservice/pkg/authz"
	"github.com/aristech/fieldservice/pkg/composables"
)

// stubTx satisfies pgx.Tx so services can run their transactional closures
// against in-memory mocks.
type stubTx struct{}

func (stubTx) Begin(ctx context.Context) (pgx.Tx, error) { return stubTx{}, nil }
func (stubTx) Commit(ctx context.Context) error          { return nil }
func (stubTx) Rollback(ctx context.Context) error        { return nil }
func (stubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (stubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (stubTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (stubTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (stubTx) Conn() *pgx.Conn                                               { return nil }

func zeroTime() time.Time { return time.Time{} }

func testContext(tenantID uuid.UUID) context.Context {
	ctx := composables.WithTx(context.Background(), stubTx{})
	return composables.WithTenantID(ctx, tenantID)
}

func allowAllAuthz(t *testing.T) {
	t.Helper()
	prev := authorizeFieldServiceFn
	authorizeFieldServiceFn = func(ctx context.Context, object, action string, opts ...authz.RequestOption) error {
		return nil
	}
	t.Cleanup(func() { authorizeFieldServiceFn = prev })
}

type mockWorkOrderRepo struct {
	workorder.Repository

	byID          map[uuid.UUID]workorder.WorkOrder
	getErr        error
	created       []workorder.WorkOrder
	updated       []workorder.WorkOrder
	snapshots     []workorder.WorkOrder
	snapshotErr   error
	assigneeCalls map[uuid.UUID][]uuid.UUID
	deleted       []uuid.UUID
	nextNumber    int64
}

func newMockWorkOrderRepo() *mockWorkOrderRepo {
	return &mockWorkOrderRepo{
		byID:          map[uuid.UUID]workorder.WorkOrder{},
		assigneeCalls: map[uuid.UUID][]uuid.UUID{},
		nextNumber:    1,
	}
}

func (m *mockWorkOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (workorder.WorkOrder, error) {
	if m.getErr != nil {
		return workorder.WorkOrder{}, m.getErr
	}
	wo, ok := m.byID[id]
	if !ok {
		return workorder.WorkOrder{}, workorder.ErrNotFound
	}
	return wo, nil
}

func (m *mockWorkOrderRepo) GetPaginated(ctx context.Context, params *workorder.FindParams) ([]workorder.WorkOrder, int64, error) {
	var out []workorder.WorkOrder
	for _, wo := range m.byID {
		out = append(out, wo)
	}
	return out, int64(len(out)), nil
}

func (m *mockWorkOrderRepo) NextNumber(ctx context.Context) (int64, error) {
	n := m.nextNumber
	m.nextNumber++
	return n, nil
}

func (m *mockWorkOrderRepo) Create(ctx context.Context, wo workorder.WorkOrder) (workorder.WorkOrder, error) {
	number, _ := m.NextNumber(ctx)
	created := workorder.Hydrate(
		wo.TenantID(), uuid.New(), number, wo.Title(), wo.Description(), wo.Status(),
		wo.Priority(), wo.ProgressMode(), wo.Progress(), wo.Counters(), wo.AssigneeIDs(),
		wo.StartedAt(), wo.CompletedAt(), wo.CreatedAt(), wo.UpdatedAt(),
	)
	m.created = append(m.created, created)
	m.byID[created.ID()] = created
	return created, nil
}

func (m *mockWorkOrderRepo) Update(ctx context.Context, wo workorder.WorkOrder) error {
	if _, ok := m.byID[wo.ID()]; !ok {
		return workorder.ErrNotFound
	}
	m.updated = append(m.updated, wo)
	m.byID[wo.ID()] = wo
	return nil
}

func (m *mockWorkOrderRepo) UpdateProgressSnapshot(ctx context.Context, wo workorder.WorkOrder) error {
	if m.snapshotErr != nil {
		return m.snapshotErr
	}
	m.snapshots = append(m.snapshots, wo)
	m.byID[wo.ID()] = wo
	return nil
}

func (m *mockWorkOrderRepo) UpdateAssignees(ctx context.Context, id uuid.UUID, assigneeIDs []uuid.UUID) error {
	m.assigneeCalls[id] = assigneeIDs
	wo, ok := m.byID[id]
	if !ok {
		return workorder.ErrNotFound
	}
	m.byID[id] = wo.WithAssigneeIDs(assigneeIDs)
	return nil
}

func (m *mockWorkOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return workorder.ErrNotFound
	}
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockTaskRepo struct {
	task.Repository

	byWorkOrder    map[uuid.UUID][]task.Task
	listErr        error
	assigneeCalls  map[uuid.UUID][]uuid.UUID
	assigneeErrs   map[uuid.UUID]error
	deletedForWO   []uuid.UUID
	deleteForWOErr error
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{
		byWorkOrder:   map[uuid.UUID][]task.Task{},
		assigneeCalls: map[uuid.UUID][]uuid.UUID{},
		assigneeErrs:  map[uuid.UUID]error{},
	}
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (task.Task, error) {
	for _, tasks := range m.byWorkOrder {
		for _, t := range tasks {
			if t.ID() == id {
				return t, nil
			}
		}
	}
	return task.Task{}, task.ErrNotFound
}

func (m *mockTaskRepo) ListForWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]task.Task, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.byWorkOrder[workOrderID], nil
}

func (m *mockTaskRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	created := task.Hydrate(
		t.TenantID(), uuid.New(), t.WorkOrderID(), t.Title(), t.Status(),
		t.AssigneeIDs(), t.CreatedAt(), t.UpdatedAt(),
	)
	m.byWorkOrder[t.WorkOrderID()] = append(m.byWorkOrder[t.WorkOrderID()], created)
	return created, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, t task.Task) error {
	tasks := m.byWorkOrder[t.WorkOrderID()]
	for i, existing := range tasks {
		if existing.ID() == t.ID() {
			tasks[i] = t
			return nil
		}
	}
	return task.ErrNotFound
}

func (m *mockTaskRepo) UpdateAssignees(ctx context.Context, id uuid.UUID, assigneeIDs []uuid.UUID) error {
	if err := m.assigneeErrs[id]; err != nil {
		return err
	}
	m.assigneeCalls[id] = assigneeIDs
	for woID, tasks := range m.byWorkOrder {
		for i, t := range tasks {
			if t.ID() == id {
				m.byWorkOrder[woID][i] = t.WithAssigneeIDs(assigneeIDs)
				return nil
			}
		}
	}
	return task.ErrNotFound
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for woID, tasks := range m.byWorkOrder {
		for i, t := range tasks {
			if t.ID() == id {
				m.byWorkOrder[woID] = append(tasks[:i], tasks[i+1:]...)
				return nil
			}
		}
	}
	return task.ErrNotFound
}

func (m *mockTaskRepo) DeleteForWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	if m.deleteForWOErr != nil {
		return 0, m.deleteForWOErr
	}
	n := int64(len(m.byWorkOrder[workOrderID]))
	delete(m.byWorkOrder, workOrderID)
	m.deletedForWO = append(m.deletedForWO, workOrderID)
	return n, nil
}

type mockPersonnelRepo struct {
	personnel.Repository

	byID map[uuid.UUID]personnel.Personnel
}

func newMockPersonnelRepo() *mockPersonnelRepo {
	return &mockPersonnelRepo{byID: map[uuid.UUID]personnel.Personnel{}}
}

func (m *mockPersonnelRepo) add(p personnel.Personnel) {
	m.byID[p.ID()] = p
}

func (m *mockPersonnelRepo) GetByID(ctx context.Context, id uuid.UUID) (personnel.Personnel, error) {
	p, ok := m.byID[id]
	if !ok {
		return personnel.Personnel{}, personnel.ErrNotFound
	}
	return p, nil
}

func (m *mockPersonnelRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]personnel.Personnel, error) {
	var out []personnel.Personnel
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockTimelineRepo struct {
	timeline.Repository

	entries      []*timeline.Entry
	insertErr    error
	deleted      []uuid.UUID
	deletedTasks []uuid.UUID
	deleteErr    error
}

func (m *mockTimelineRepo) Insert(ctx context.Context, entry *timeline.Entry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	entry.ID = uuid.New()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockTimelineRepo) ListForWorkOrder(ctx context.Context, workOrderID uuid.UUID, params *timeline.FindParams) ([]*timeline.Entry, error) {
	var out []*timeline.Entry
	for _, e := range m.entries {
		if e.WorkOrderID == workOrderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockTimelineRepo) CountForWorkOrder(ctx context.Context, workOrderID uuid.UUID, params *timeline.FindParams) (int64, error) {
	entries, _ := m.ListForWorkOrder(ctx, workOrderID, params)
	return int64(len(entries)), nil
}

func (m *mockTimelineRepo) DeleteForWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.deleted = append(m.deleted, workOrderID)
	n := int64(0)
	var kept []*timeline.Entry
	for _, e := range m.entries {
		if e.WorkOrderID == workOrderID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return n, nil
}

func (m *mockTimelineRepo) DeleteForTask(ctx context.Context, taskID uuid.UUID) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.deletedTasks = append(m.deletedTasks, taskID)
	n := int64(0)
	var kept []*timeline.Entry
	for _, e := range m.entries {
		if e.EntityType == timeline.EntityTask && e.EntityID != nil && *e.EntityID == taskID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return n, nil
}

type mockAssignmentRepo struct {
	assignment.Repository

	grants    []*assignment.Permission
	upsertErr error
	revokeErr error
	revoked   []uuid.UUID
}

func (m *mockAssignmentRepo) has(personnelID uuid.UUID, rt assignment.ResourceType, resourceID uuid.UUID) bool {
	for _, g := range m.grants {
		if g.PersonnelID == personnelID && g.ResourceType == rt && g.ResourceID == resourceID {
			return true
		}
	}
	return false
}

func (m *mockAssignmentRepo) ListForResource(ctx context.Context, rt assignment.ResourceType, resourceID uuid.UUID) ([]*assignment.Permission, error) {
	var out []*assignment.Permission
	for _, g := range m.grants {
		if g.ResourceType == rt && g.ResourceID == resourceID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) Upsert(ctx context.Context, p *assignment.Permission) (bool, error) {
	if m.upsertErr != nil {
		return false, m.upsertErr
	}
	if m.has(p.PersonnelID, p.ResourceType, p.ResourceID) {
		return false, nil
	}
	p.ID = uuid.New()
	m.grants = append(m.grants, p)
	return true, nil
}

func (m *mockAssignmentRepo) Revoke(ctx context.Context, personnelID uuid.UUID, rt assignment.ResourceType, resourceID uuid.UUID) error {
	if m.revokeErr != nil {
		return m.revokeErr
	}
	var kept []*assignment.Permission
	for _, g := range m.grants {
		if g.PersonnelID == personnelID && g.ResourceType == rt && g.ResourceID == resourceID {
			m.revoked = append(m.revoked, personnelID)
			continue
		}
		kept = append(kept, g)
	}
	m.grants = kept
	return nil
}

func (m *mockAssignmentRepo) RevokeForResource(ctx context.Context, rt assignment.ResourceType, resourceID uuid.UUID) (int64, error) {
	if m.revokeErr != nil {
		return 0, m.revokeErr
	}
	n := int64(0)
	var kept []*assignment.Permission
	for _, g := range m.grants {
		if g.ResourceType == rt && g.ResourceID == resourceID {
			n++
			continue
		}
		kept = append(kept, g)
	}
	m.grants = kept
	return n, nil
}

type mockAttachmentRepo struct {
	attachment.Repository

	count     int64
	deleteErr error
	deleted   []uuid.UUID
}

func (m *mockAttachmentRepo) DeleteForWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.deleted = append(m.deleted, workOrderID)
	return m.count, nil
}

type mockCommentRepo struct {
	comment.Repository

	count     int64
	deleteErr error
	deleted   []uuid.UUID
}

func (m *mockCommentRepo) DeleteForWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.deleted = append(m.deleted, workOrderID)
	return m.count, nil
}
