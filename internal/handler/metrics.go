package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recblog_registrations_total",
		Help: "Total number of successful user registrations.",
	})

	confirmationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recblog_confirmations_total",
		Help: "Total number of confirmed accounts.",
	})

	postsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recblog_posts_created_total",
		Help: "Total number of recipe posts created.",
	})

	commentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recblog_comments_created_total",
		Help: "Total number of comments created.",
	})

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recblog_token_verifications_total",
			Help: "Total number of token verification attempts by type and status.",
		},
		[]string{"type", "status"},
	)
)
