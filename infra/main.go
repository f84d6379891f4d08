package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/energyhub-backend/infra/cloudrun"
	"github.com/GregMSThompson/energyhub-backend/infra/docker"
	"github.com/GregMSThompson/energyhub-backend/infra/firestore"
	"github.com/GregMSThompson/energyhub-backend/infra/identity"
	"github.com/GregMSThompson/energyhub-backend/infra/kms"
	"github.com/GregMSThompson/energyhub-backend/infra/provider"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the loan records
		db, err := firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// key used to encrypt applicant emails at rest
		kmsSvc, err := kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		key, err := kms.CreateKey(ctx, prov, "energyhub", "loan-pii", kmsSvc)
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, key, ident, db, repo)
		if err != nil {
			return err
		}

		ctx.Export("loanKeyName", key.ID())
		return nil
	})
}
