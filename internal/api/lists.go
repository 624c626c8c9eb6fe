package api

import (
	"net/http"

	"lead-gateway/internal/contacts"
	"lead-gateway/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListHandler struct {
	DB    *gorm.DB
	Store *contacts.Store
}

func NewListHandler(db *gorm.DB, store *contacts.Store) *ListHandler {
	return &ListHandler{DB: db, Store: store}
}

type CreateListRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *ListHandler) CreateList(c *gin.Context) {
	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list := models.List{
		ID:   uuid.NewString(),
		Name: req.Name,
	}
	if err := h.DB.Create(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create list"})
		return
	}
	c.JSON(http.StatusCreated, list)
}

func (h *ListHandler) GetLists(c *gin.Context) {
	var lists []models.List
	if err := h.DB.Order("created_at DESC").Find(&lists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if lists == nil {
		lists = []models.List{}
	}
	c.JSON(http.StatusOK, lists)
}

func (h *ListHandler) GetListContacts(c *gin.Context) {
	listID := c.Param("id")

	var list models.List
	if err := h.DB.First(&list, "id = ?", listID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}

	records, err := h.Store.ListContacts(listID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []models.ListContact{}
	}
	c.JSON(http.StatusOK, gin.H{
		"list":     list,
		"contacts": records,
	})
}
