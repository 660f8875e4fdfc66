package recipe

import (
	"math"
	"net/http"

	"recipe-importer/internal/api/handlers"
	"recipe-importer/internal/core/conversion"
	"recipe-importer/internal/core/ingredient"
	"recipe-importer/internal/core/scaling"
	"recipe-importer/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// maxLines 單次請求最多處理的食材行數
const maxLines = 500

// HandleParse 解析食材文字
func HandleParse(c *gin.Context) {
	var req ParseRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	if len(req.Lines) > maxLines {
		handlers.RespondError(c, common.NewValidationError("too many lines"))
		return
	}

	c.JSON(http.StatusOK, ParseResponse{
		Success:     true,
		Ingredients: ingredient.ParseLines(req.Lines),
	})
}

// HandleScale 依倍率縮放食材
func HandleScale(c *gin.Context) {
	var req ScaleRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	if req.Multiplier <= 0 || math.IsInf(req.Multiplier, 0) {
		handlers.RespondError(c, common.NewValidationError("multiplier must be a positive number"))
		return
	}

	tokens := req.Ingredients
	if len(tokens) == 0 {
		tokens = ingredient.ParseLines(req.Lines)
	}
	if len(tokens) > maxLines {
		handlers.RespondError(c, common.NewValidationError("too many ingredients"))
		return
	}

	c.JSON(http.StatusOK, ScaleResponse{
		Success:     true,
		Multiplier:  req.Multiplier,
		Ingredients: scaling.ScaleIngredients(tokens, req.Multiplier, req.ShowGrams),
	})
}

// HandleConvert 將單一食材換算為克
func HandleConvert(c *gin.Context) {
	var req ConvertRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	var tok ingredient.Token
	switch {
	case req.Ingredient != nil:
		tok = *req.Ingredient
	case req.Line != "":
		tok = ingredient.Parse(req.Line)
	default:
		handlers.RespondError(c, common.NewValidationError("ingredient or line is required"))
		return
	}

	result := conversion.ConvertToGrams(tok)
	c.JSON(http.StatusOK, ConvertResponse{
		Success:    true,
		Ingredient: tok,
		Conversion: result,
		Display:    conversion.DisplayWithConfidence(result),
	})
}

// HandleUnits 回傳單位清單與常用倍率
func HandleUnits(c *gin.Context) {
	c.JSON(http.StatusOK, UnitsResponse{
		Success:          true,
		Units:            ingredient.Units(),
		ConvertibleUnits: conversion.ConvertibleUnits(),
		Multipliers:      scaling.MultiplierOptions(),
	})
}
