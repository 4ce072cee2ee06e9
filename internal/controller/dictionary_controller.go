package controller

import (
	"engolo_backend/internal/service"
	"engolo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DictionaryController struct {
	Dictionary *service.DictionaryService
}

func NewDictionaryController(dictionary *service.DictionaryService) *DictionaryController {
	return &DictionaryController{Dictionary: dictionary}
}

// Lookup godoc
// @Summary Look up a word in the external dictionary
// @Tags dictionary
// @Produce json
// @Param lang path string true "Language code"
// @Param word path string true "Word to look up"
// @Success 200 {object} util.Response{data=service.DictionaryEntry}
// @Failure 502 {object} util.Response
// @Router /api/dictionary/{lang}/{word} [get]
func (ctl *DictionaryController) Lookup(c *gin.Context) {
	entry, err := ctl.Dictionary.Lookup(c.Request.Context(), c.Param("lang"), c.Param("word"))
	if err != nil {
		util.Error(c, 502, "dictionary lookup failed")
		return
	}
	util.Success(c, entry)
}

// Translate godoc
// @Summary Translate a short text
// @Tags dictionary
// @Produce json
// @Param q query string true "Text to translate"
// @Param from query string false "Source language" default(en)
// @Param to query string false "Target language" default(es)
// @Success 200 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /api/translate [get]
func (ctl *DictionaryController) Translate(c *gin.Context) {
	text := c.Query("q")
	if text == "" {
		util.BadRequest(c, "missing q parameter")
		return
	}

	from := c.DefaultQuery("from", "en")
	to := c.DefaultQuery("to", "es")

	translated, err := ctl.Dictionary.Translate(c.Request.Context(), from, to, text)
	if err != nil {
		util.Error(c, 502, "translation failed")
		return
	}
	util.Success(c, gin.H{"source": text, "translated": translated, "from": from, "to": to})
}
