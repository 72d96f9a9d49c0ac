package repoargs

type RepositoryName string

const (
	UserRepoName           RepositoryName = "user"
	OrderRepoName          RepositoryName = "order"
	ProductRepoName        RepositoryName = "product"
	PaymentAccountRepoName RepositoryName = "payment_account"
)
