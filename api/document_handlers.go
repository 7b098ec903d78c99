package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/coursexp/internal/errors"
	"github.com/gcbaptista/coursexp/model"
)

// DatasetHandler serves the dataset document. PureJSON keeps Persian text and
// links unescaped, as in the file on disk.
func (api *API) DatasetHandler(c *gin.Context) {
	reviews := api.catalogue.Reviews().All()
	if reviews == nil {
		reviews = []model.Review{}
	}
	c.Header("Cache-Control", "no-cache")
	c.PureJSON(http.StatusOK, reviews)
}

// LastUpdateHandler serves the last-update marker document.
func (api *API) LastUpdateHandler(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.PureJSON(http.StatusOK, model.LastUpdate{LastUpdate: api.catalogue.LastUpdate()})
}

// GetReviewHandler returns one review by its ID.
func (api *API) GetReviewHandler(c *gin.Context) {
	reviewID, validation := ValidateReviewID(c.Param("id"))
	if validation.HasErrors() {
		SendValidationError(c, validation)
		return
	}

	review, err := api.catalogue.Reviews().Get(reviewID)
	if err != nil {
		if stderrors.Is(err, errors.ErrReviewNotFound) {
			SendReviewNotFoundError(c, reviewID)
			return
		}
		SendInternalError(c, "review lookup", err)
		return
	}
	c.PureJSON(http.StatusOK, review)
}
