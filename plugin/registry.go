package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
)

// DefaultHookTimeout bounds each hook call.
const DefaultHookTimeout = 5 * time.Second

// Registry manages all registered plugins and dispatches events to them in
// registration order. Hook lists are cached per interface at Register time.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	onInit                 []OnInit
	onShutdown             []OnShutdown
	onMemberRegistered     []OnMemberRegistered
	onMemberCheckedIn      []OnMemberCheckedIn
	onMemberRenewed        []OnMemberRenewed
	onMemberTerminated     []OnMemberTerminated
	onMembershipExpiring   []OnMembershipExpiring
	onStaffHired           []OnStaffHired
	onStaffTerminated      []OnStaffTerminated
	onSalaryPaid           []OnSalaryPaid
	onExpenseRecorded      []OnExpenseRecorded
	onEquipmentOrderPlaced []OnEquipmentOrderPlaced
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultHookTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-call hook timeout. Non-positive values are ignored.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnMemberRegistered); ok {
		r.onMemberRegistered = append(r.onMemberRegistered, v)
	}
	if v, ok := p.(OnMemberCheckedIn); ok {
		r.onMemberCheckedIn = append(r.onMemberCheckedIn, v)
	}
	if v, ok := p.(OnMemberRenewed); ok {
		r.onMemberRenewed = append(r.onMemberRenewed, v)
	}
	if v, ok := p.(OnMemberTerminated); ok {
		r.onMemberTerminated = append(r.onMemberTerminated, v)
	}
	if v, ok := p.(OnMembershipExpiring); ok {
		r.onMembershipExpiring = append(r.onMembershipExpiring, v)
	}
	if v, ok := p.(OnStaffHired); ok {
		r.onStaffHired = append(r.onStaffHired, v)
	}
	if v, ok := p.(OnStaffTerminated); ok {
		r.onStaffTerminated = append(r.onStaffTerminated, v)
	}
	if v, ok := p.(OnSalaryPaid); ok {
		r.onSalaryPaid = append(r.onSalaryPaid, v)
	}
	if v, ok := p.(OnExpenseRecorded); ok {
		r.onExpenseRecorded = append(r.onExpenseRecorded, v)
	}
	if v, ok := p.(OnEquipmentOrderPlaced); ok {
		r.onEquipmentOrderPlaced = append(r.onEquipmentOrderPlaced, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedInterfaces(p),
	)

	return nil
}

var hookTypes = []reflect.Type{
	reflect.TypeFor[OnInit](),
	reflect.TypeFor[OnShutdown](),
	reflect.TypeFor[OnMemberRegistered](),
	reflect.TypeFor[OnMemberCheckedIn](),
	reflect.TypeFor[OnMemberRenewed](),
	reflect.TypeFor[OnMemberTerminated](),
	reflect.TypeFor[OnMembershipExpiring](),
	reflect.TypeFor[OnStaffHired](),
	reflect.TypeFor[OnStaffTerminated](),
	reflect.TypeFor[OnSalaryPaid](),
	reflect.TypeFor[OnExpenseRecorded](),
	reflect.TypeFor[OnEquipmentOrderPlaced](),
}

func implementedInterfaces(p Plugin) []string {
	v := reflect.TypeOf(p)
	var names []string
	for _, t := range hookTypes {
		if v.Implements(t) {
			names = append(names, t.Name())
		}
	}
	return names
}

// Get returns a plugin by name, or nil.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins in registration order.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission
// ──────────────────────────────────────────────────

// snapshot copies a hook list under the read lock.
func snapshot[T any](r *Registry, list *[]T) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, len(*list))
	copy(out, *list)
	return out
}

// emit calls fn for each plugin in order. Failures are logged and dropped so
// one subscriber cannot affect another or the caller.
func emit[T Plugin](ctx context.Context, r *Registry, hook string, plugins []T, fn func(context.Context, T) error) {
	for _, p := range plugins {
		if err := r.call(ctx, func(ctx context.Context) error { return fn(ctx, p) }); err != nil {
			r.logger.Warn("plugin "+hook+" failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// call runs fn on the caller's goroutine with a bounded context and turns
// panics into errors.
func (r *Registry) call(ctx context.Context, fn func(context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("plugin panic: %v", rec)
		}
	}()

	return fn(ctx)
}

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, gym any) {
	emit(ctx, r, "OnInit", snapshot(r, &r.onInit), func(ctx context.Context, p OnInit) error {
		return p.OnInit(ctx, gym)
	})
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	emit(ctx, r, "OnShutdown", snapshot(r, &r.onShutdown), func(ctx context.Context, p OnShutdown) error {
		return p.OnShutdown(ctx)
	})
}

func (r *Registry) EmitMemberRegistered(ctx context.Context, e *event.MemberRegistered) {
	emit(ctx, r, "OnMemberRegistered", snapshot(r, &r.onMemberRegistered), func(ctx context.Context, p OnMemberRegistered) error {
		return p.OnMemberRegistered(ctx, e)
	})
}

func (r *Registry) EmitMemberCheckedIn(ctx context.Context, e *event.MemberCheckedIn) {
	emit(ctx, r, "OnMemberCheckedIn", snapshot(r, &r.onMemberCheckedIn), func(ctx context.Context, p OnMemberCheckedIn) error {
		return p.OnMemberCheckedIn(ctx, e)
	})
}

func (r *Registry) EmitMemberRenewed(ctx context.Context, e *event.MemberRenewed) {
	emit(ctx, r, "OnMemberRenewed", snapshot(r, &r.onMemberRenewed), func(ctx context.Context, p OnMemberRenewed) error {
		return p.OnMemberRenewed(ctx, e)
	})
}

func (r *Registry) EmitMemberTerminated(ctx context.Context, e *event.MemberTerminated) {
	emit(ctx, r, "OnMemberTerminated", snapshot(r, &r.onMemberTerminated), func(ctx context.Context, p OnMemberTerminated) error {
		return p.OnMemberTerminated(ctx, e)
	})
}

func (r *Registry) EmitMembershipExpiring(ctx context.Context, e *event.MembershipExpiring) {
	emit(ctx, r, "OnMembershipExpiring", snapshot(r, &r.onMembershipExpiring), func(ctx context.Context, p OnMembershipExpiring) error {
		return p.OnMembershipExpiring(ctx, e)
	})
}

func (r *Registry) EmitStaffHired(ctx context.Context, e *event.StaffHired) {
	emit(ctx, r, "OnStaffHired", snapshot(r, &r.onStaffHired), func(ctx context.Context, p OnStaffHired) error {
		return p.OnStaffHired(ctx, e)
	})
}

func (r *Registry) EmitStaffTerminated(ctx context.Context, e *event.StaffTerminated) {
	emit(ctx, r, "OnStaffTerminated", snapshot(r, &r.onStaffTerminated), func(ctx context.Context, p OnStaffTerminated) error {
		return p.OnStaffTerminated(ctx, e)
	})
}

func (r *Registry) EmitSalaryPaid(ctx context.Context, e *event.SalaryPaid) {
	emit(ctx, r, "OnSalaryPaid", snapshot(r, &r.onSalaryPaid), func(ctx context.Context, p OnSalaryPaid) error {
		return p.OnSalaryPaid(ctx, e)
	})
}

func (r *Registry) EmitExpenseRecorded(ctx context.Context, e *event.ExpenseRecorded) {
	emit(ctx, r, "OnExpenseRecorded", snapshot(r, &r.onExpenseRecorded), func(ctx context.Context, p OnExpenseRecorded) error {
		return p.OnExpenseRecorded(ctx, e)
	})
}

func (r *Registry) EmitEquipmentOrderPlaced(ctx context.Context, e *event.EquipmentOrderPlaced) {
	emit(ctx, r, "OnEquipmentOrderPlaced", snapshot(r, &r.onEquipmentOrderPlaced), func(ctx context.Context, p OnEquipmentOrderPlaced) error {
		return p.OnEquipmentOrderPlaced(ctx, e)
	})
}
