package types

import (
	"context"

	"github.com/cosmos/cosmos-sdk/types/query"
)

// QueryServer is the read-only surface of the market module.
type QueryServer interface {
	Market(context.Context, *QueryMarketRequest) (*QueryMarketResponse, error)
	Job(context.Context, *QueryJobRequest) (*QueryJobResponse, error)
	Jobs(context.Context, *QueryJobsRequest) (*QueryJobsResponse, error)
	JobsByOwner(context.Context, *QueryJobsByOwnerRequest) (*QueryJobsResponse, error)
	JobsByProvider(context.Context, *QueryJobsByProviderRequest) (*QueryJobsResponse, error)
	PendingSettlement(context.Context, *QueryPendingSettlementRequest) (*QueryPendingSettlementResponse, error)
	PendingRevision(context.Context, *QueryPendingRevisionRequest) (*QueryPendingRevisionResponse, error)
	Provider(context.Context, *QueryProviderRequest) (*QueryProviderResponse, error)
	Providers(context.Context, *QueryProvidersRequest) (*QueryProvidersResponse, error)
	CreditAllowance(context.Context, *QueryCreditAllowanceRequest) (*QueryCreditAllowanceResponse, error)
}

type QueryMarketRequest struct{}

type QueryMarketResponse struct {
	Market Market `json:"market"`
}

type QueryJobRequest struct {
	JobIndex uint64 `json:"job_index"`
}

type QueryJobResponse struct {
	Job Job `json:"job"`
}

type QueryJobsRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryJobsByOwnerRequest struct {
	Owner      string             `json:"owner"`
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryJobsByProviderRequest struct {
	Provider   string             `json:"provider"`
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

// QueryJobsResponse is shared by every job listing query.
type QueryJobsResponse struct {
	Jobs       []Job               `json:"jobs"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

type QueryPendingSettlementRequest struct {
	JobIndex uint64 `json:"job_index"`
}

// QueryPendingSettlementResponse previews what settling the job now would pay.
type QueryPendingSettlementResponse struct {
	Amount       uint64 `json:"amount"`
	CreditAmount uint64 `json:"credit_amount"`
	FullyCovered bool   `json:"fully_covered"`
}

type QueryPendingRevisionRequest struct {
	JobIndex uint64 `json:"job_index"`
}

type QueryPendingRevisionResponse struct {
	Revision PendingRevision `json:"revision"`
}

type QueryProviderRequest struct {
	Address string `json:"address"`
}

type QueryProviderResponse struct {
	Provider Provider `json:"provider"`
}

type QueryProvidersRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryProvidersResponse struct {
	Providers  []Provider          `json:"providers"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

type QueryCreditAllowanceRequest struct {
	Owner string `json:"owner"`
}

// QueryCreditAllowanceResponse reports the allowance of an owner. Found is
// false when the owner never set one and the whole credit balance is usable.
type QueryCreditAllowanceResponse struct {
	Allowance CreditAllowance `json:"allowance"`
	Found     bool            `json:"found"`
}
