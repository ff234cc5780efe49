package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	storeprefix "cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oyster-market/oyster/x/market/types"
)

var _ types.QueryServer = queryServer{}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

// sanitizePagination enforces default and max limits to prevent unbounded queries.
func sanitizePagination(p *query.PageRequest) *query.PageRequest {
	if p == nil {
		return &query.PageRequest{Limit: defaultPaginationLimit}
	}

	if p.Limit == 0 {
		p.Limit = defaultPaginationLimit
	}

	if p.Limit > maxPaginationLimit {
		p.Limit = maxPaginationLimit
	}

	return p
}

// notFoundOrInternal maps registered not-found errors to codes.NotFound.
func notFoundOrInternal(err error) error {
	switch {
	case errorsmod.IsOf(err, types.ErrJobNotFound, types.ErrProviderNotFound, types.ErrMarketNotFound, types.ErrNoPendingRevision):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// Market returns the market configuration
func (qs queryServer) Market(goCtx context.Context, req *types.QueryMarketRequest) (*types.QueryMarketResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	market, err := qs.Keeper.GetMarket(goCtx)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}

	return &types.QueryMarketResponse{Market: market}, nil
}

// Job returns a single job by index
func (qs queryServer) Job(goCtx context.Context, req *types.QueryJobRequest) (*types.QueryJobResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	job, err := qs.Keeper.GetJob(goCtx, req.JobIndex)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}

	return &types.QueryJobResponse{Job: job}, nil
}

// Jobs returns all open jobs in index order with pagination
func (qs queryServer) Jobs(goCtx context.Context, req *types.QueryJobsRequest) (*types.QueryJobsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	jobStore := storeprefix.NewStore(qs.Keeper.getStore(goCtx), JobKeyPrefix)

	sanitized := sanitizePagination(req.Pagination)
	jobs := make([]types.Job, 0, sanitized.Limit)
	pageRes, err := query.Paginate(jobStore, sanitized, func(_ []byte, value []byte) error {
		var job types.Job
		if err := json.Unmarshal(value, &job); err != nil {
			return fmt.Errorf("unmarshal job: %w", err)
		}
		jobs = append(jobs, job)
		return nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryJobsResponse{Jobs: jobs, Pagination: pageRes}, nil
}

// JobsByOwner returns the open jobs of an owner with pagination
func (qs queryServer) JobsByOwner(goCtx context.Context, req *types.QueryJobsByOwnerRequest) (*types.QueryJobsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	owner, err := sdk.AccAddressFromBech32(req.Owner)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid owner address: %s", err))
	}

	return qs.jobsByIndex(goCtx, JobsByOwnerPrefixFor(owner), req.Pagination)
}

// JobsByProvider returns the open jobs served by a provider with pagination
func (qs queryServer) JobsByProvider(goCtx context.Context, req *types.QueryJobsByProviderRequest) (*types.QueryJobsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	provider, err := sdk.AccAddressFromBech32(req.Provider)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid provider address: %s", err))
	}

	return qs.jobsByIndex(goCtx, JobsByProviderPrefixFor(provider), req.Pagination)
}

// jobsByIndex pages through a secondary index whose keys end in a job index.
func (qs queryServer) jobsByIndex(goCtx context.Context, indexPrefix []byte, pagination *query.PageRequest) (*types.QueryJobsResponse, error) {
	indexStore := storeprefix.NewStore(qs.Keeper.getStore(goCtx), indexPrefix)

	sanitized := sanitizePagination(pagination)
	jobs := make([]types.Job, 0, sanitized.Limit)
	pageRes, err := query.Paginate(indexStore, sanitized, func(key []byte, _ []byte) error {
		job, err := qs.Keeper.GetJob(goCtx, sdk.BigEndianToUint64(key))
		if err != nil {
			return err
		}
		jobs = append(jobs, job)
		return nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryJobsResponse{Jobs: jobs, Pagination: pageRes}, nil
}

// PendingSettlement previews what settling a job now would pay
func (qs queryServer) PendingSettlement(goCtx context.Context, req *types.QueryPendingSettlementRequest) (*types.QueryPendingSettlementResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	amount, credit, covered, err := qs.Keeper.PendingSettlement(goCtx, req.JobIndex)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}

	return &types.QueryPendingSettlementResponse{
		Amount:       amount,
		CreditAmount: credit,
		FullyCovered: covered,
	}, nil
}

// PendingRevision returns the rate change staged for a job
func (qs queryServer) PendingRevision(goCtx context.Context, req *types.QueryPendingRevisionRequest) (*types.QueryPendingRevisionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	if !qs.Keeper.HasJob(goCtx, req.JobIndex) {
		return nil, status.Error(codes.NotFound, types.ErrJobNotFound.Wrapf("job %d", req.JobIndex).Error())
	}
	revision, found := qs.Keeper.PendingRevision(goCtx, req.JobIndex)
	if !found {
		return nil, notFoundOrInternal(types.ErrNoPendingRevision.Wrapf("job %d", req.JobIndex))
	}

	return &types.QueryPendingRevisionResponse{Revision: revision}, nil
}

// Provider returns information about a specific provider
func (qs queryServer) Provider(goCtx context.Context, req *types.QueryProviderRequest) (*types.QueryProviderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	if req.Address == "" {
		return nil, status.Error(codes.InvalidArgument, "provider address cannot be empty")
	}

	addr, err := sdk.AccAddressFromBech32(req.Address)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid provider address: %s", err))
	}

	provider, err := qs.Keeper.GetProvider(goCtx, addr)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}

	return &types.QueryProviderResponse{Provider: provider}, nil
}

// Providers returns a list of all registered providers with pagination
func (qs queryServer) Providers(goCtx context.Context, req *types.QueryProvidersRequest) (*types.QueryProvidersResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	providerStore := storeprefix.NewStore(qs.Keeper.getStore(goCtx), ProviderKeyPrefix)

	sanitized := sanitizePagination(req.Pagination)
	providers := make([]types.Provider, 0, sanitized.Limit)
	pageRes, err := query.Paginate(providerStore, sanitized, func(_ []byte, value []byte) error {
		var provider types.Provider
		if err := json.Unmarshal(value, &provider); err != nil {
			return fmt.Errorf("unmarshal provider: %w", err)
		}
		providers = append(providers, provider)
		return nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryProvidersResponse{
		Providers:  providers,
		Pagination: pageRes,
	}, nil
}

// CreditAllowance returns the credit allowance of an owner
func (qs queryServer) CreditAllowance(goCtx context.Context, req *types.QueryCreditAllowanceRequest) (*types.QueryCreditAllowanceResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	owner, err := sdk.AccAddressFromBech32(req.Owner)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid owner address: %s", err))
	}

	allowance, found := qs.Keeper.GetCreditAllowance(goCtx, owner)
	return &types.QueryCreditAllowanceResponse{Allowance: allowance, Found: found}, nil
}
