package contexts

import (
	"context"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/tenancy"
)

// ContextKey defines the context key type.
type ContextKey string

const (
	// containerContextKey is used to store the context container in the context.
	containerContextKey ContextKey = "context_container"
)

// WithIdentity stores the resolved identity in the context.
func WithIdentity(ctx context.Context, identity authz.Identity) context.Context {
	container := getContainer(ctx)
	container.Identity = &identity

	return withContainer(ctx, container)
}

// GetIdentity retrieves the resolved identity from the context.
func GetIdentity(ctx context.Context) (authz.Identity, bool) {
	container := getContainer(ctx)
	if container.Identity == nil {
		return authz.Identity{}, false
	}

	return *container.Identity, true
}

// WithTenantFilter stores the tenant scoping filter in the context.
func WithTenantFilter(ctx context.Context, filter tenancy.TenantFilter) context.Context {
	container := getContainer(ctx)
	container.TenantFilter = &filter

	return withContainer(ctx, container)
}

// GetTenantFilter retrieves the tenant scoping filter from the context.
func GetTenantFilter(ctx context.Context) (tenancy.TenantFilter, bool) {
	container := getContainer(ctx)
	if container.TenantFilter == nil {
		return tenancy.TenantFilter{}, false
	}

	return *container.TenantFilter, true
}

// WithTraceID stores the trace id in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	container := getContainer(ctx)
	container.TraceID = &traceID

	return withContainer(ctx, container)
}

// GetTraceID retrieves the trace id from the context.
func GetTraceID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.TraceID != nil {
		return *container.TraceID, true
	}

	return "", false
}

// WithRequestID stores the request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	container := getContainer(ctx)
	container.RequestID = &requestID

	return withContainer(ctx, container)
}

// GetRequestID retrieves the request id from the context.
func GetRequestID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.RequestID != nil {
		return *container.RequestID, true
	}

	return "", false
}

// WithOperationName stores the operation name in the context.
func WithOperationName(ctx context.Context, name string) context.Context {
	container := getContainer(ctx)
	container.OperationName = &name

	return withContainer(ctx, container)
}

// GetOperationName retrieves the operation name from the context.
func GetOperationName(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.OperationName != nil {
		return *container.OperationName, true
	}

	return "", false
}

// AddError appends an error to the request's error list for access logging.
func AddError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	container := getContainer(ctx)
	container.mu.Lock()
	container.Errors = append(container.Errors, err)
	container.mu.Unlock()
}

// GetErrors returns the errors collected during the request.
func GetErrors(ctx context.Context) []error {
	container := getContainer(ctx)
	container.mu.RLock()
	defer container.mu.RUnlock()

	errs := make([]error, len(container.Errors))
	copy(errs, container.Errors)

	return errs
}
