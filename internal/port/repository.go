package port

import (
	"github.com/vertextoedge/vidfetch/internal/domain/repository"
)

// HistoryRepository is an alias to domain repository interface
type HistoryRepository = repository.HistoryRepository
