package services

import (
	"context"

	"github.com/aristech/fieldservice/pkg/authz"
	"github.com/aristech/fieldservice/pkg/composables"
	"github.com/aristech/fieldservice/pkg/serrors"
)

const (
	WorkOrderAuthzObject = "fieldservice.work_orders"
	TaskAuthzObject      = "fieldservice.tasks"
	TimelineAuthzObject  = "fieldservice.timeline"
)

var authorizeFieldServiceFn = defaultAuthorizeFieldService

func authorizeFieldService(ctx context.Context, object, action string, opts ...authz.RequestOption) error {
	return authorizeFieldServiceFn(ctx, object, action, opts...)
}

func defaultAuthorizeFieldService(ctx context.Context, object, action string, opts ...authz.RequestOption) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return serrors.NewError("AUTHZ_FORBIDDEN", "tenant not found", "Authorization.PermissionDenied")
	}

	actorID, err := composables.UseActorID(ctx)
	if err != nil {
		return serrors.NewError("AUTHZ_FORBIDDEN", "permission denied", "Authorization.PermissionDenied")
	}

	req := authz.NewRequest(
		authz.SubjectForUser(actorID),
		authz.DomainFromTenant(tenantID),
		object,
		authz.NormalizeAction(action),
		opts...,
	)
	return authz.Use().Authorize(ctx, req)
}
