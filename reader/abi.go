package reader

const readerABI = `[
	{
		"name": "getPositions",
		"type": "function",
		"stateMutability": "view",
		"inputs": [
			{"name": "_vault", "type": "address"},
			{"name": "_account", "type": "address"},
			{"name": "_collateralTokens", "type": "address[]"},
			{"name": "_indexTokens", "type": "address[]"},
			{"name": "_isLong", "type": "bool[]"}
		],
		"outputs": [{"name": "", "type": "uint256[]"}]
	},
	{
		"name": "getFundingRates",
		"type": "function",
		"stateMutability": "view",
		"inputs": [
			{"name": "_vault", "type": "address"},
			{"name": "_weth", "type": "address"},
			{"name": "_tokens", "type": "address[]"}
		],
		"outputs": [{"name": "", "type": "uint256[]"}]
	},
	{
		"name": "getVaultTokenInfo",
		"type": "function",
		"stateMutability": "view",
		"inputs": [
			{"name": "_vault", "type": "address"},
			{"name": "_weth", "type": "address"},
			{"name": "_usdgAmount", "type": "uint256"},
			{"name": "_tokens", "type": "address[]"}
		],
		"outputs": [{"name": "", "type": "uint256[]"}]
	}
]`

const (
	methodGetPositions      = "getPositions"
	methodGetFundingRates   = "getFundingRates"
	methodGetVaultTokenInfo = "getVaultTokenInfo"
)
