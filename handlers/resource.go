package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// record is a gorm model with a string id; every models type embedding Base is one.
type record[T any] interface {
	*T
	GetID() string
	SetID(string)
}

// resource describes one CRUD collection: its display name, its JSON keys and the
// checks run before writing.
type resource[T any] struct {
	what     string // "Food", used in messages
	one      string // JSON key for a single record
	many     string // JSON key for lists
	validate func(*T) error
}

func (r resource[T]) check(v *T) error {
	if r.validate == nil {
		return nil
	}
	return r.validate(v)
}

func listRecords[T any](h *Handler, c *gin.Context, r resource[T], scope func(*gorm.DB) *gorm.DB) {
	var items []T
	q := h.DB.WithContext(c.Request.Context())
	if scope != nil {
		q = scope(q)
	}
	q = q.Order("created_at desc")
	if err := q.Find(&items).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), r.many: items})
}

func getRecord[T any](h *Handler, c *gin.Context, r resource[T]) {
	var v T
	if err := h.DB.WithContext(c.Request.Context()).First(&v, "id = ?", c.Param("id")).Error; err != nil {
		h.fail(c, dbError(err, r.what))
		return
	}
	c.JSON(http.StatusOK, gin.H{r.one: v})
}

func createRecord[T any, P record[T]](h *Handler, c *gin.Context, r resource[T]) {
	var v T
	if !h.bind(c, &v) {
		return
	}
	P(&v).SetID("")
	if err := r.check(&v); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&v).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": r.what + " created", r.one: v})
}

// updateRecord overlays the request body on the stored record, so absent fields keep
// their values.
func updateRecord[T any, P record[T]](h *Handler, c *gin.Context, r resource[T]) {
	db := h.DB.WithContext(c.Request.Context())
	id := c.Param("id")

	var v T
	if err := db.First(&v, "id = ?", id).Error; err != nil {
		h.fail(c, dbError(err, r.what))
		return
	}
	if !h.bind(c, &v) {
		return
	}
	P(&v).SetID(id)
	if err := r.check(&v); err != nil {
		h.fail(c, err)
		return
	}
	if err := db.Save(&v).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": r.what + " updated", r.one: v})
}

func deleteRecord[T any](h *Handler, c *gin.Context, r resource[T]) {
	res := h.DB.WithContext(c.Request.Context()).Delete(new(T), "id = ?", c.Param("id"))
	if res.Error != nil {
		h.fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		h.fail(c, dbError(gorm.ErrRecordNotFound, r.what))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": r.what + " deleted"})
}
