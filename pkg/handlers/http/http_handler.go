package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Comments
	SubmitCommentHandler Handler
	ListCommentsHandler  Handler

	// Dashboard
	GetDashboardHandler        Handler
	GetAttackStatsHandler      Handler
	ListAttacksHandler         Handler
	ListHighRiskAttacksHandler Handler

	// System
	GetVersionHandler Handler
	HealthHandler     Handler
}
