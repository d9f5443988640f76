package archive

import (
	"net/http"
	"time"

	"theatre-production-manager/internal/subscription"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Archive snapshots a show. The per-plan archive limit is resolved here and
// handed to the service, which enforces it before touching any data.
func (h *Handler) Archive(c *gin.Context) {
	userID, _ := c.Get("user_id")
	plan, _ := c.Get("user_plan")

	limit := subscription.ArchivedShowsLimit(plan.(string))

	archiveID, err := h.service.ArchiveShow(c.Request.Context(), c.Param("id"), userID.(uint64), limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"archiveId": archiveID})
}

func (h *Handler) Restore(c *gin.Context) {
	userID, _ := c.Get("user_id")

	showID, err := h.service.RestoreShow(c.Request.Context(), c.Param("id"), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"showId": showID})
}

func (h *Handler) PermanentlyDelete(c *gin.Context) {
	userID, _ := c.Get("user_id")

	if err := h.service.PermanentlyDeleteShow(c.Request.Context(), c.Param("id"), userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ArchiveSummary is the list view of an archive, without the snapshot body
type ArchiveSummary struct {
	ID              string     `json:"id"`
	ShowID          string     `json:"showId"`
	ShowName        string     `json:"showName"`
	ArchivedAt      time.Time  `json:"archivedAt"`
	CanRestore      bool       `json:"canRestore"`
	LastRestoredAt  *time.Time `json:"lastRestoredAt,omitempty"`
	ArchiveMetadata Metadata   `json:"archiveMetadata"`
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")

	archives, err := h.service.ListUserArchives(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	summaries := make([]ArchiveSummary, 0, len(archives))
	for _, a := range archives {
		summaries = append(summaries, ArchiveSummary{
			ID:              a.ID,
			ShowID:          a.ShowID,
			ShowName:        a.Show.Name,
			ArchivedAt:      a.ArchivedAt,
			CanRestore:      a.CanRestore,
			LastRestoredAt:  a.LastRestoredAt,
			ArchiveMetadata: a.ArchiveMetadata,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

func (h *Handler) Get(c *gin.Context) {
	record, err := h.service.GetArchive(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, record)
}
