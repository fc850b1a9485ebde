package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"finchat/internal/models"
	"finchat/internal/pkg/maturity"
)

type ProductController struct {
	DB *gorm.DB
}

// GetProducts returns stored listings for a category (deposit by default)
func (pc *ProductController) GetProducts(c *gin.Context) {
	category := maturity.CategoryDeposit
	if raw := c.Query("category"); raw != "" {
		parsed, ok := maturity.ParseCategory(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		category = parsed
	}

	limit := getLimitWithDefault(c, 100)

	var products []models.Product
	err := pc.DB.Preload("Options").Where("category = ?", string(category)).Order("company_name, product_name").Limit(limit).Find(&products).Error
	if err != nil {
		log.Printf("failed to get products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

func getLimitWithDefault(c *gin.Context, defaultValue int) int {
	var err error
	limit := defaultValue
	if c.Query("limit") != "" {
		limit, err = strconv.Atoi(c.Query("limit"))
		if err != nil {
			log.Printf("failed to parse limit: %v, using default value: %d", err, defaultValue)
			return defaultValue
		}
	}
	return limit
}
