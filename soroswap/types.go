package soroswap

import (
	protocols "github.com/paltalabs/protocols-sdk-go"
)

// TradeType selects which side of a quote is fixed.
type TradeType string

const (
	TradeExactIn  TradeType = "EXACT_IN"
	TradeExactOut TradeType = "EXACT_OUT"
)

// Protocol identifies an AMM the aggregator can route through.
type Protocol string

const (
	ProtocolSoroswap Protocol = "soroswap"
	ProtocolPhoenix  Protocol = "phoenix"
	ProtocolAqua     Protocol = "aqua"
	ProtocolComet    Protocol = "comet"
)

// QuoteRequest asks the aggregator for the best route between two assets.
// Amount is the fixed side selected by TradeType.
type QuoteRequest struct {
	AssetIn     string            `json:"assetIn"`
	AssetOut    string            `json:"assetOut"`
	Amount      *protocols.BigInt `json:"amount"`
	TradeType   TradeType         `json:"tradeType"`
	Protocols   []Protocol        `json:"protocols"`
	Parts       int               `json:"parts,omitempty"`
	SlippageBPS uint32            `json:"slippageBps,omitempty"`
}

// SwapStep is one hop of a route.
type SwapStep struct {
	Protocol Protocol `json:"protocol"`
	Path     []string `json:"path"`
}

// RoutePlanEntry is one parallel split of a route, carrying the percentage
// of the trade it handles as a decimal string.
type RoutePlanEntry struct {
	SwapInfo SwapStep `json:"swapInfo"`
	Percent  string   `json:"percent"`
}

// Quote is the aggregator's answer: amounts on both sides, the worst
// acceptable amount under the requested slippage, and the route plan. A
// Quote is passed back verbatim to Build to obtain the transaction.
type Quote struct {
	AssetIn              string            `json:"assetIn"`
	AssetOut             string            `json:"assetOut"`
	AmountIn             *protocols.BigInt `json:"amountIn"`
	AmountOut            *protocols.BigInt `json:"amountOut"`
	OtherAmountThreshold *protocols.BigInt `json:"otherAmountThreshold"`
	PriceImpactPct       string            `json:"priceImpactPct"`
	TradeType            TradeType         `json:"tradeType"`
	Platform             Protocol          `json:"platform"`
	RoutePlan            []RoutePlanEntry  `json:"routePlan"`
}

// BuildRequest turns a Quote into an unsigned transaction for `from`.
type BuildRequest struct {
	Quote      Quote  `json:"quote"`
	From       string `json:"from"`
	To         string `json:"to,omitempty"`
	ReferralID string `json:"referralId,omitempty"`
}

// BuildResponse carries the unsigned transaction envelope. The XDR is
// opaque to the SDK; sign it and submit via Send.
type BuildResponse struct {
	XDR string `json:"xdr"`
}

// SendParams submits a signed transaction envelope.
type SendParams struct {
	XDR        string `json:"xdr"`
	LaunchTube bool   `json:"launchtube,omitempty"`
}

// SendResponse reports the submission outcome.
type SendResponse struct {
	Hash   string `json:"txHash"`
	Status string `json:"status"`
}

// Pool describes one liquidity pool.
type Pool struct {
	Protocol       Protocol          `json:"protocol"`
	Address        string            `json:"address"`
	TokenA         string            `json:"tokenA"`
	TokenB         string            `json:"tokenB"`
	ReserveA       *protocols.BigInt `json:"reserveA"`
	ReserveB       *protocols.BigInt `json:"reserveB"`
	LiquidityToken string            `json:"liquidityToken,omitempty"`
}

// AddLiquidityRequest builds a transaction depositing both assets into a
// pool.
type AddLiquidityRequest struct {
	AssetA      string            `json:"assetA"`
	AssetB      string            `json:"assetB"`
	AmountA     *protocols.BigInt `json:"amountA"`
	AmountB     *protocols.BigInt `json:"amountB"`
	To          string            `json:"to"`
	SlippageBPS uint32            `json:"slippageBps,omitempty"`
}

// RemoveLiquidityRequest builds a transaction burning pool shares.
type RemoveLiquidityRequest struct {
	AssetA      string            `json:"assetA"`
	AssetB      string            `json:"assetB"`
	Liquidity   *protocols.BigInt `json:"liquidity"`
	AmountA     *protocols.BigInt `json:"amountA"`
	AmountB     *protocols.BigInt `json:"amountB"`
	To          string            `json:"to"`
	SlippageBPS uint32            `json:"slippageBps,omitempty"`
}

// LiquidityResponse carries the unsigned liquidity transaction.
type LiquidityResponse struct {
	XDR string `json:"xdr"`
}

// LiquidityPosition is one pool position held by an account.
type LiquidityPosition struct {
	PoolAddress string            `json:"poolAddress"`
	UserShares  *protocols.BigInt `json:"userPosition"`
	TotalShares *protocols.BigInt `json:"totalShares"`
}

// AssetPrice is the USD price of one asset.
type AssetPrice struct {
	Asset             string `json:"asset"`
	ReferenceCurrency string `json:"referenceCurrency"`
	Price             string `json:"price"`
}

// AssetInfo is one entry of a curated asset list.
type AssetInfo struct {
	Contract string `json:"contract"`
	Code     string `json:"code"`
	Issuer   string `json:"issuer,omitempty"`
	Decimals int    `json:"decimals"`
	Icon     string `json:"icon,omitempty"`
}

// AssetList is a named, curated set of assets.
type AssetList struct {
	Name     string      `json:"name"`
	Provider string      `json:"provider,omitempty"`
	Assets   []AssetInfo `json:"assets"`
}

// HealthStatus is the API liveness report.
type HealthStatus struct {
	Status string `json:"status"`
}
