package defindex

import (
	protocols "github.com/paltalabs/protocols-sdk-go"
)

// VaultRole identifies one of the four privileged roles a vault assigns.
type VaultRole string

const (
	RoleEmergencyManager VaultRole = "emergency_manager"
	RoleFeeReceiver      VaultRole = "fee_receiver"
	RoleManager          VaultRole = "manager"
	RoleRebalanceManager VaultRole = "rebalance_manager"
)

// VaultRoles maps each role to the address holding it.
type VaultRoles struct {
	EmergencyManager string `json:"emergency_manager"`
	FeeReceiver      string `json:"fee_receiver"`
	Manager          string `json:"manager"`
	RebalanceManager string `json:"rebalance_manager"`
}

// Strategy is one yield strategy attached to a vault asset.
type Strategy struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Paused  bool   `json:"paused"`
}

// AssetAllocation is one underlying asset of a vault together with the
// strategies it is invested through.
type AssetAllocation struct {
	Address    string     `json:"address"`
	Strategies []Strategy `json:"strategies"`
}

// VaultInfo describes a deployed vault.
type VaultInfo struct {
	Address     string              `json:"address"`
	Name        string              `json:"name"`
	Symbol      string              `json:"symbol"`
	Roles       VaultRoles          `json:"roles"`
	Assets      []AssetAllocation   `json:"assets"`
	VaultFeeBPS uint32              `json:"vault_fee_bps"`
	TotalSupply *protocols.BigInt   `json:"total_supply"`
	TotalAssets []*protocols.BigInt `json:"total_assets"`
}

// APYInfo is the vault's historical yield.
type APYInfo struct {
	Address string  `json:"address"`
	APY     float64 `json:"apy"`
}

// Balance is one account's position in a vault.
type Balance struct {
	DfTokens          *protocols.BigInt   `json:"df_tokens"`
	UnderlyingBalance []*protocols.BigInt `json:"underlying_balance"`
}

// DepositParams requests a deposit transaction. Amounts are ordered like
// the vault's asset list.
type DepositParams struct {
	Amounts     []*protocols.BigInt `json:"amounts"`
	Caller      string              `json:"caller"`
	Invest      bool                `json:"invest"`
	SlippageBPS uint32              `json:"slippage_bps,omitempty"`
}

// WithdrawParams requests a withdrawal by underlying amounts.
type WithdrawParams struct {
	Amounts     []*protocols.BigInt `json:"amounts"`
	Caller      string              `json:"caller"`
	SlippageBPS uint32              `json:"slippage_bps,omitempty"`
}

// WithdrawSharesParams requests a withdrawal by vault share amount.
type WithdrawSharesParams struct {
	Shares *protocols.BigInt `json:"shares"`
	Caller string            `json:"caller"`
}

// RescueParams pulls all funds out of a strategy and back into the vault.
type RescueParams struct {
	Strategy string `json:"strategy_address"`
	Caller   string `json:"caller"`
}

// StrategyParams targets one strategy for pause/unpause.
type StrategyParams struct {
	Strategy string `json:"strategy_address"`
	Caller   string `json:"caller"`
}

// SetRoleParams reassigns a vault role to a new address.
type SetRoleParams struct {
	Role       VaultRole `json:"role"`
	NewAddress string    `json:"new_address"`
	Caller     string    `json:"caller"`
}

// FeeParams identifies the caller for a fee operation.
type FeeParams struct {
	Caller string `json:"caller"`
}

// StrategyReport is one strategy's entry in a vault report.
type StrategyReport struct {
	Strategy      string            `json:"strategy_address"`
	GainsOrLosses *protocols.BigInt `json:"gains_or_losses"`
	LockedFee     *protocols.BigInt `json:"locked_fee"`
	Prices        map[string]string `json:"prices,omitempty"`
}

// Report is the vault's fee and performance report.
type Report struct {
	Address string           `json:"address"`
	Entries []StrategyReport `json:"report"`
}

// CreateVaultParams deploys a new vault through the factory. This is the
// canonical flattened schema; there is exactly one shape per operation.
type CreateVaultParams struct {
	Roles       VaultRoles        `json:"roles"`
	VaultFeeBPS uint32            `json:"vault_fee_bps"`
	Assets      []AssetAllocation `json:"assets"`
	Name        string            `json:"name_symbol_name"`
	Symbol      string            `json:"name_symbol_symbol"`
	Upgradable  bool              `json:"upgradable"`
	Caller      string            `json:"caller"`
}

// TransactionResponse carries an unsigned transaction envelope produced
// server-side. The XDR is opaque to the SDK; sign it and submit via Send.
type TransactionResponse struct {
	XDR              string `json:"xdr"`
	SimulationResult string `json:"simulation_result,omitempty"`
}

// SendParams submits a signed transaction envelope.
type SendParams struct {
	XDR        string `json:"xdr"`
	LaunchTube bool   `json:"launchtube,omitempty"`
}

// SendResponse reports the submission outcome.
type SendResponse struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
}

// HealthStatus is the API liveness report.
type HealthStatus struct {
	Status string `json:"status"`
}

// FactoryInfo reports the factory contract address for a network.
type FactoryInfo struct {
	Address string `json:"address"`
}
