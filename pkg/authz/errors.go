package authz

import (
	"fmt"

	"github.com/aristech/fieldservice/pkg/serrors"
)

func forbiddenError(req Request) *serrors.BaseError {
	return serrors.NewError(
		"AUTHZ_FORBIDDEN",
		fmt.Sprintf("subject %s may not %s %s", req.Subject, req.Action, req.Object),
		"Authorization.PermissionDenied",
	)
}
