package service

import (
	"context"
	"errors"

	"github.com/valeriaulyamaeva/finflow/internal/database"
)

type owned interface {
	OwnerID() string
}

// fetchOwned loads a record by id and hides records owned by someone else
// behind the same not-found error a missing record gets.
func fetchOwned[T owned](
	ctx context.Context,
	get func(context.Context, string) (*T, error),
	id, userID, message string,
) (*T, error) {
	record, err := get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFoundError(message, err)
	}
	if err != nil {
		return nil, err
	}
	if (*record).OwnerID() != userID {
		return nil, notFoundError(message, nil)
	}
	return record, nil
}
